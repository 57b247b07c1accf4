package session

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/iomreport/internal/cache"
	"github.com/smallbiznis/iomreport/internal/clock"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/importer"
	obscontext "github.com/smallbiznis/iomreport/internal/observability/context"
	"github.com/smallbiznis/iomreport/internal/observability/logger"
	"github.com/smallbiznis/iomreport/internal/observability/metrics"
	"github.com/smallbiznis/iomreport/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Status messages shown to the operator.
const (
	MessageCommitted = "Sync complete! Cloud data updated."
	MessageConnected = "Connected! Database structure verified."
	MessageSaved     = "Credentials saved locally."
)

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Status is a snapshot of the controller.
type Status struct {
	State        State               `json:"state"`
	Refreshing   bool                `json:"refreshing"`
	Syncing      bool                `json:"syncing"`
	RecordCount  int                 `json:"record_count"`
	FromCache    bool                `json:"from_cache"`
	LastLoadedAt *time.Time          `json:"last_loaded_at,omitempty"`
	Error        *domain.RemoteError `json:"error,omitempty"`
	Pending      *PendingInfo        `json:"pending,omitempty"`
}

type Params struct {
	fx.In

	Config         config.Config
	Settings       *config.SettingsStore
	Factory        domain.GatewayFactory
	Cache          cache.Store
	Log            *zap.Logger
	Clock          clock.Clock             `optional:"true"`
	Guard          *ratelimit.Guard        `optional:"true"`
	Metrics        *metrics.Metrics        `optional:"true"`
	GatewayMetrics *metrics.GatewayMetrics `optional:"true"`
}

// Controller owns the in-memory record set and the staged import. Both
// are replaced wholesale, never patched.
type Controller struct {
	log       *zap.Logger
	settings  *config.SettingsStore
	factory   domain.GatewayFactory
	cache     cache.Store
	guard     *ratelimit.Guard
	metrics   *metrics.Metrics
	gwMetrics *metrics.GatewayMetrics
	node      *snowflake.Node
	now       func() time.Time

	mu         sync.RWMutex
	gateway    domain.Gateway
	generation uint64
	inflight   int
	ready      bool
	syncing    bool
	records    []domain.Record
	fromCache  bool
	loadedAt   *time.Time
	lastErr    error
	pending    *Pending

	cacheMu   sync.Mutex
	cachedGen uint64
}

func NewController(p Params) (*Controller, error) {
	node, err := snowflake.NewNode(p.Config.SnowflakeNode)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if p.Clock != nil {
		now = p.Clock.Now
	}

	c := &Controller{
		log:       p.Log.Named("session"),
		settings:  p.Settings,
		factory:   p.Factory,
		cache:     p.Cache,
		guard:     p.Guard,
		metrics:   p.Metrics,
		gwMetrics: p.GatewayMetrics,
		node:      node,
		now:       now,
		records:   []domain.Record{},
	}
	c.gateway = p.Factory(p.Settings.Gateway())
	p.Settings.Subscribe(c.retarget)
	return c, nil
}

// retarget swaps the gateway for one bound to the new settings. Loads in
// flight against the old target are discarded when they finish.
func (c *Controller) retarget(next config.GatewaySettings) {
	gw := c.factory(next)

	c.mu.Lock()
	old := c.gateway
	c.gateway = gw
	c.generation++
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	c.log.Info("gateway target changed", zap.String("url", next.URL))
}

// Load fetches the remote record set. On failure the error is kept for
// display and, when nothing is loaded yet, the local cache is used.
// A load that finishes after a newer load, commit or retarget started is
// discarded.
func (c *Controller) Load(ctx context.Context) Status {
	ctx, _ = obscontext.EnsureCorrelationID(ctx)
	log := logger.WithContext(ctx, c.log)
	started := c.now()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	gw := c.gateway
	c.inflight++
	c.mu.Unlock()

	records, err := gw.FetchAll(ctx)

	var cached []domain.Record
	if err != nil && c.isEmpty() {
		cached = c.cache.LoadAll(ctx)
	}

	c.mu.Lock()
	c.inflight--
	if gen != c.generation {
		status := c.statusLocked()
		c.mu.Unlock()
		log.Info("discarding stale load", zap.Uint64("generation", gen))
		c.gwMetrics.ObserveLoad(metrics.LoadOutcomeStale, started)
		return status
	}

	c.ready = true
	outcome := metrics.LoadOutcomeRemote
	if err == nil {
		now := c.now()
		c.records = records
		c.fromCache = false
		c.lastErr = nil
		c.loadedAt = &now
	} else {
		c.lastErr = err
		outcome = metrics.LoadOutcomeFailed
		if len(c.records) == 0 && len(cached) > 0 {
			c.records = cached
			c.fromCache = true
			outcome = metrics.LoadOutcomeCacheFallback
		}
	}
	count := len(c.records)
	status := c.statusLocked()
	c.mu.Unlock()

	c.gwMetrics.ObserveLoad(outcome, started)
	c.gwMetrics.SetRecordsLoaded(count)

	switch outcome {
	case metrics.LoadOutcomeRemote:
		c.gwMetrics.MarkLoaded(c.now())
		c.persist(ctx, gen, records)
		log.Info("records loaded", zap.Int("records", count))
	case metrics.LoadOutcomeCacheFallback:
		c.metrics.RecordCacheFallback(ctx)
		log.Warn("remote fetch failed, serving cached records", zap.Int("records", count), zap.Error(err))
	default:
		log.Warn("remote fetch failed", zap.Error(err))
	}
	return status
}

// persist writes records to the local cache unless a newer generation
// already did. Cache failures are logged by the store and never surface.
func (c *Controller) persist(ctx context.Context, gen uint64, records []domain.Record) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	if gen < c.cachedGen {
		return
	}
	c.cachedGen = gen
	if err := c.cache.SaveAll(ctx, records); err != nil {
		c.log.Warn("cache save failed", zap.Error(err))
	}
}

func (c *Controller) isEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records) == 0
}

// Records returns the current record set. The slice must not be modified.
func (c *Controller) Records() []domain.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records
}

func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	status := Status{
		State:        StateLoading,
		Refreshing:   c.inflight > 0,
		Syncing:      c.syncing,
		RecordCount:  len(c.records),
		FromCache:    c.fromCache,
		LastLoadedAt: c.loadedAt,
	}
	if c.ready {
		status.State = StateReady
	}
	if c.lastErr != nil {
		remoteErr, _ := domain.AsRemoteError(domain.WrapRemoteError(c.lastErr))
		status.Error = remoteErr
	}
	if c.pending != nil {
		info := c.pending.Info()
		status.Pending = &info
	}
	return status
}

// Stage replaces the pending import with a decoded result. Nothing is
// written remotely until Commit.
func (c *Controller) Stage(result importer.Result) PendingInfo {
	pending := &Pending{
		ID:        c.node.Generate(),
		Source:    result.Source,
		Rows:      result.Rows,
		Records:   domain.FromDisplayRows(result.Rows),
		CreatedAt: c.now().UTC(),
	}

	c.mu.Lock()
	c.pending = pending
	c.mu.Unlock()

	c.gwMetrics.SetPendingRows(len(pending.Rows))
	c.log.Info("import staged",
		zap.String("pending_id", pending.ID.String()),
		zap.String("source", pending.Source),
		zap.Int("rows", len(pending.Rows)),
	)
	return pending.Info()
}

// Pending returns the staged import, if any.
func (c *Controller) Pending() (*Pending, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending, c.pending != nil
}

// DiscardPending drops the staged import.
func (c *Controller) DiscardPending() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
	c.gwMetrics.SetPendingRows(0)
}

// Commit overwrites the remote record set with the staged import: one
// delete, then sequential insert batches. id, when set, must match the
// staged import. On failure the import stays staged so it can be retried.
func (c *Controller) Commit(ctx context.Context, id string, onBatch domain.BatchFunc) error {
	ctx, _ = obscontext.EnsureCorrelationID(ctx)
	log := logger.WithContext(ctx, c.log)

	c.mu.Lock()
	pending := c.pending
	switch {
	case pending == nil:
		c.mu.Unlock()
		return ErrNoPending
	case id != "" && id != pending.ID.String():
		c.mu.Unlock()
		return ErrPendingMismatch
	case c.syncing:
		c.mu.Unlock()
		return ErrCommitInProgress
	}
	c.syncing = true
	gw := c.gateway
	c.mu.Unlock()

	release, err := c.guard.LockCommit(ctx)
	if err != nil {
		c.finishSync()
		return err
	}
	defer release()

	log.Info("commit started",
		zap.String("pending_id", pending.ID.String()),
		zap.Int("rows", len(pending.Rows)),
	)
	if err := gw.ReplaceAll(ctx, pending.Rows, onBatch); err != nil {
		c.finishSync()
		c.metrics.RecordCommit(ctx, "failed")
		log.Error("commit failed", zap.Error(err))
		return err
	}

	now := c.now()
	c.mu.Lock()
	c.syncing = false
	c.generation++
	gen := c.generation
	c.records = pending.Records
	c.fromCache = false
	c.lastErr = nil
	c.loadedAt = &now
	if c.pending == pending {
		c.pending = nil
	}
	c.mu.Unlock()

	c.gwMetrics.SetPendingRows(0)
	c.gwMetrics.SetRecordsLoaded(len(pending.Records))
	c.gwMetrics.MarkLoaded(now)
	c.metrics.RecordCommit(ctx, "ok")
	c.persist(ctx, gen, pending.Records)
	log.Info("commit finished", zap.Int("rows", len(pending.Records)))
	return nil
}

func (c *Controller) finishSync() {
	c.mu.Lock()
	c.syncing = false
	c.mu.Unlock()
}

// Gateway returns the active gateway settings.
func (c *Controller) Gateway() config.GatewaySettings {
	return c.settings.Gateway()
}

// SaveGateway persists new gateway settings; the gateway is rebuilt when
// the target actually changes.
func (c *Controller) SaveGateway(next config.GatewaySettings) (config.GatewaySettings, error) {
	return c.settings.SaveGateway(next)
}

// TestConnection saves next, when given, and checks that the table is
// reachable on the resulting target.
func (c *Controller) TestConnection(ctx context.Context, next *config.GatewaySettings) error {
	if next != nil {
		if _, err := c.settings.SaveGateway(*next); err != nil {
			return err
		}
	}
	c.mu.RLock()
	gw := c.gateway
	c.mu.RUnlock()

	return gw.Ping(ctx)
}

// Close releases the active gateway.
func (c *Controller) Close() error {
	c.mu.Lock()
	gw := c.gateway
	c.mu.Unlock()
	if gw == nil {
		return nil
	}
	return gw.Close()
}
