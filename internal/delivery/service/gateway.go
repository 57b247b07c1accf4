package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	obslogger "github.com/smallbiznis/iomreport/internal/observability/logger"
	"github.com/smallbiznis/iomreport/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Opener  domain.Opener
	Log     *zap.Logger
	Metrics *metrics.GatewayMetrics `optional:"true"`
}

// NewFactory returns a constructor for gateways bound to a target. The
// backend connection is opened on first use.
func NewFactory(p Params) domain.GatewayFactory {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("delivery.gateway")
	return func(settings config.GatewaySettings) domain.Gateway {
		return &gateway{
			opener:   p.Opener,
			settings: settings.Normalize(),
			log:      log,
			metrics:  p.Metrics,
		}
	}
}

type gateway struct {
	opener   domain.Opener
	settings config.GatewaySettings
	log      *zap.Logger
	metrics  *metrics.GatewayMetrics

	mu      sync.Mutex
	backend domain.Backend
	closed  bool
}

func (g *gateway) Settings() config.GatewaySettings {
	return g.settings
}

func (g *gateway) open(ctx context.Context) (domain.Backend, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, domain.ErrGatewayClosed
	}
	if g.backend != nil {
		return g.backend, nil
	}

	started := time.Now()
	backend, err := g.opener.Open(ctx, g.settings)
	if err != nil {
		g.metrics.ObserveCall(metrics.GatewayOpOpen, started, err)
		if errors.Is(err, domain.ErrUnsupportedTarget) {
			return nil, err
		}
		return nil, domain.WrapRemoteError(err)
	}
	g.backend = backend
	return backend, nil
}

func (g *gateway) FetchAll(ctx context.Context) ([]domain.Record, error) {
	backend, err := g.open(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	rows, err := backend.FetchAll(ctx)
	g.metrics.ObserveCall(metrics.GatewayOpFetch, started, err)
	if err != nil {
		obslogger.WithContext(ctx, g.log).Warn("fetch failed", zap.Error(err))
		return nil, domain.WrapRemoteError(err)
	}
	g.metrics.AddRows(metrics.GatewayOpFetch, len(rows))

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.FromWire(row))
	}
	return records, nil
}

// ReplaceAll overwrites the remote table with rows. The delete completes
// before the first insert, and batches run in order; the first failing
// batch aborts the rest. Nothing is rolled back.
func (g *gateway) ReplaceAll(ctx context.Context, rows []domain.DisplayRow, onBatch domain.BatchFunc) error {
	wire := make([]domain.WireRow, 0, len(rows))
	for _, row := range rows {
		wire = append(wire, domain.ToWire(row))
	}

	backend, err := g.open(ctx)
	if err != nil {
		return err
	}
	log := obslogger.WithContext(ctx, g.log)

	started := time.Now()
	err = backend.DeleteAll(ctx)
	g.metrics.ObserveCall(metrics.GatewayOpDelete, started, err)
	if err != nil {
		log.Warn("delete failed", zap.Error(err))
		return domain.WrapRemoteError(err)
	}

	total := len(wire)
	for start := 0; start < total; start += domain.BatchSize {
		end := min(start+domain.BatchSize, total)

		started := time.Now()
		err := backend.Insert(ctx, wire[start:end])
		g.metrics.ObserveCall(metrics.GatewayOpInsert, started, err)
		if err != nil {
			log.Warn("insert batch failed",
				zap.Int("batch", start/domain.BatchSize+1),
				zap.Int("inserted", start),
				zap.Int("total", total),
				zap.Error(err),
			)
			return domain.WrapRemoteError(err)
		}
		g.metrics.AddRows(metrics.GatewayOpInsert, end-start)
		if onBatch != nil {
			onBatch(end, total)
		}
	}

	log.Info("remote table replaced", zap.Int("rows", total))
	return nil
}

// Ping opens the backend and runs a count query.
func (g *gateway) Ping(ctx context.Context) error {
	backend, err := g.open(ctx)
	if err != nil {
		return err
	}
	started := time.Now()
	_, err = backend.Count(ctx)
	g.metrics.ObserveCall(metrics.GatewayOpPing, started, err)
	return domain.WrapRemoteError(err)
}

func (g *gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	if g.backend == nil {
		return nil
	}
	err := g.backend.Close()
	g.backend = nil
	return err
}
