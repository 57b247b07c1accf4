package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/internal/importer"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	settings config.GatewaySettings

	mu       sync.Mutex
	fetch    func(ctx context.Context) ([]domain.Record, error)
	replaced [][]domain.DisplayRow
	replace  error
	ping     error
	closed   bool
}

func (g *fakeGateway) Settings() config.GatewaySettings { return g.settings }

func (g *fakeGateway) FetchAll(ctx context.Context) ([]domain.Record, error) {
	g.mu.Lock()
	fetch := g.fetch
	g.mu.Unlock()
	if fetch == nil {
		return []domain.Record{}, nil
	}
	return fetch(ctx)
}

func (g *fakeGateway) ReplaceAll(_ context.Context, rows []domain.DisplayRow, onBatch domain.BatchFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.replace != nil {
		return g.replace
	}
	g.replaced = append(g.replaced, rows)
	if onBatch != nil {
		onBatch(len(rows), len(rows))
	}
	return nil
}

func (g *fakeGateway) Ping(context.Context) error { return g.ping }

func (g *fakeGateway) Close() error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	return nil
}

type memoryCache struct {
	mu      sync.Mutex
	records []domain.Record
	saves   int
}

func (c *memoryCache) SaveAll(_ context.Context, records []domain.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.saves++
	return nil
}

func (c *memoryCache) LoadAll(context.Context) []domain.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

type harness struct {
	controller *Controller
	settings   *config.SettingsStore
	cache      *memoryCache
	gateways   []*fakeGateway
}

func (h *harness) gateway() *fakeGateway {
	return h.gateways[len(h.gateways)-1]
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store, err := config.NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"), zap.NewNop())
	require.NoError(t, err)

	h := &harness{settings: store, cache: &memoryCache{}}
	factory := func(settings config.GatewaySettings) domain.Gateway {
		gw := &fakeGateway{settings: settings}
		h.gateways = append(h.gateways, gw)
		return gw
	}

	c, err := NewController(Params{
		Config:   config.Config{SnowflakeNode: 1},
		Settings: store,
		Factory:  factory,
		Cache:    h.cache,
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)
	h.controller = c
	return h
}

func recordsOf(rows ...domain.DisplayRow) []domain.Record {
	return domain.FromDisplayRows(rows)
}

func TestLoadReplacesRecordsAndCaches(t *testing.T) {
	h := newHarness(t)
	remote := recordsOf(domain.DisplayRow{"BUYER": "Acme"}, domain.DisplayRow{"BUYER": "Zenith"})
	h.gateway().fetch = func(context.Context) ([]domain.Record, error) { return remote, nil }

	require.Equal(t, StateLoading, h.controller.Status().State)

	status := h.controller.Load(context.Background())
	require.Equal(t, StateReady, status.State)
	require.Equal(t, 2, status.RecordCount)
	require.False(t, status.FromCache)
	require.Nil(t, status.Error)
	require.NotNil(t, status.LastLoadedAt)
	require.Equal(t, remote, h.controller.Records())
	require.Equal(t, remote, h.cache.LoadAll(context.Background()))
}

func TestLoadFallsBackToCacheWhenEmpty(t *testing.T) {
	h := newHarness(t)
	h.cache.records = recordsOf(domain.DisplayRow{"BUYER": "Cached"})
	h.gateway().fetch = func(context.Context) ([]domain.Record, error) {
		return nil, &domain.RemoteError{Message: "relation does not exist", Code: "42P01"}
	}

	status := h.controller.Load(context.Background())
	require.Equal(t, StateReady, status.State)
	require.True(t, status.FromCache)
	require.Equal(t, 1, status.RecordCount)
	require.NotNil(t, status.Error)
	require.Equal(t, "42P01", status.Error.Code)
	require.True(t, status.Error.SchemaMissing())
}

func TestLoadFailureKeepsLoadedRecords(t *testing.T) {
	h := newHarness(t)
	remote := recordsOf(domain.DisplayRow{"BUYER": "Acme"})
	h.gateway().fetch = func(context.Context) ([]domain.Record, error) { return remote, nil }
	h.controller.Load(context.Background())

	h.cache.records = recordsOf(domain.DisplayRow{"BUYER": "Old"}, domain.DisplayRow{"BUYER": "Older"})
	h.gateway().fetch = func(context.Context) ([]domain.Record, error) { return nil, errors.New("dial tcp: refused") }

	status := h.controller.Load(context.Background())
	require.False(t, status.FromCache)
	require.Equal(t, 1, status.RecordCount)
	require.Equal(t, "dial tcp: refused", status.Error.Message)
	require.Equal(t, remote, h.controller.Records())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	h := newHarness(t)
	slow := recordsOf(domain.DisplayRow{"BUYER": "Slow"})
	fast := recordsOf(domain.DisplayRow{"BUYER": "Fast"})

	release := make(chan struct{})
	started := make(chan struct{})
	var calls int
	var mu sync.Mutex
	h.gateway().fetch = func(context.Context) ([]domain.Record, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return slow, nil
		}
		return fast, nil
	}

	done := make(chan Status)
	go func() { done <- h.controller.Load(context.Background()) }()
	<-started

	h.controller.Load(context.Background())
	close(release)
	<-done

	require.Equal(t, fast, h.controller.Records())
	require.Equal(t, fast, h.cache.LoadAll(context.Background()))
	require.False(t, h.controller.Status().Refreshing)
}

func TestStageAndCommit(t *testing.T) {
	h := newHarness(t)
	rows := []domain.DisplayRow{{"BUYER": "Acme", "DELIVERY QTY. (YDS)": "1,000"}, {"BUYER": "Zenith"}}

	err := h.controller.Commit(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrNoPending)

	info := h.controller.Stage(importer.Result{Source: importer.SourceFile, Rows: rows})
	require.Equal(t, 2, info.Count)
	require.NotEmpty(t, info.ID)
	require.Equal(t, info.ID, h.controller.Status().Pending.ID)

	require.ErrorIs(t, h.controller.Commit(context.Background(), "123", nil), ErrPendingMismatch)

	var batches []int
	err = h.controller.Commit(context.Background(), info.ID, func(inserted, total int) {
		batches = append(batches, inserted)
	})
	require.NoError(t, err)
	require.Equal(t, []int{2}, batches)
	require.Equal(t, [][]domain.DisplayRow{rows}, h.gateway().replaced)

	status := h.controller.Status()
	require.Nil(t, status.Pending)
	require.Equal(t, 2, status.RecordCount)
	require.Equal(t, 1000.0, *h.controller.Records()[0].DeliveryQtyYds)
	require.Len(t, h.cache.LoadAll(context.Background()), 2)
}

func TestCommitFailureKeepsPending(t *testing.T) {
	h := newHarness(t)
	h.gateway().replace = &domain.RemoteError{Message: "column does not exist", Code: "42703"}

	h.controller.Stage(importer.Result{Source: importer.SourceURL, Rows: []domain.DisplayRow{{"BUYER": "Acme"}}})
	err := h.controller.Commit(context.Background(), "", nil)

	remoteErr, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	require.Equal(t, "42703", remoteErr.Code)

	status := h.controller.Status()
	require.NotNil(t, status.Pending)
	require.False(t, status.Syncing)
	require.Zero(t, status.RecordCount)

	h.controller.DiscardPending()
	_, ok = h.controller.Pending()
	require.False(t, ok)
}

func TestSettingsChangeRetargetsGateway(t *testing.T) {
	h := newHarness(t)
	first := h.gateway()

	next := config.GatewaySettings{URL: "https://example.supabase.co", Key: "k2"}
	saved, err := h.controller.SaveGateway(next)
	require.NoError(t, err)
	require.Equal(t, next, saved)

	require.Len(t, h.gateways, 2)
	require.True(t, first.closed)
	require.Equal(t, next, h.gateway().Settings())
	require.Equal(t, next, h.controller.Gateway())
}

func TestTestConnection(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.controller.TestConnection(context.Background(), nil))

	h.gateway().ping = &domain.RemoteError{Code: "PGRST205"}
	err := h.controller.TestConnection(context.Background(), nil)
	remoteErr, ok := domain.AsRemoteError(err)
	require.True(t, ok)
	require.True(t, remoteErr.SchemaMissing())

	next := config.GatewaySettings{URL: "sqlite://" + filepath.Join(t.TempDir(), "x.db"), Key: ""}
	require.NoError(t, h.controller.TestConnection(context.Background(), &next))
	require.Equal(t, next.URL, h.gateway().Settings().URL)
}

func TestConcurrentCommitRejected(t *testing.T) {
	h := newHarness(t)
	h.controller.Stage(importer.Result{Source: importer.SourceFile, Rows: []domain.DisplayRow{{"BUYER": "Acme"}}})

	h.controller.mu.Lock()
	h.controller.syncing = true
	h.controller.mu.Unlock()

	require.ErrorIs(t, h.controller.Commit(context.Background(), "", nil), ErrCommitInProgress)
}

func TestPendingInfoMessage(t *testing.T) {
	p := &Pending{Rows: make([]domain.DisplayRow, 3), CreatedAt: time.Unix(0, 0)}
	require.Equal(t, "3 Records Loaded", p.Info().Message)
}
