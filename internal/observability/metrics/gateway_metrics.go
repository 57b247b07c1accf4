package metrics

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

const (
	GatewayOpFetch  = "fetch"
	GatewayOpDelete = "delete"
	GatewayOpInsert = "insert"
	GatewayOpPing   = "ping"
	GatewayOpOpen   = "open"
)

// Outcomes of a dashboard load.
const (
	LoadOutcomeRemote        = "remote"
	LoadOutcomeCacheFallback = "cache_fallback"
	LoadOutcomeFailed        = "failed"
	LoadOutcomeStale         = "stale"
)

const (
	GatewayReasonSchemaMissing    = "schema_missing"
	GatewayReasonDeadlineExceeded = "deadline_exceeded"
	GatewayReasonUnauthorized     = "unauthorized"
	GatewayReasonRemote           = "remote"
	GatewayReasonTransport        = "transport"
)

// GatewayMetrics tracks calls to the remote record store and the state of
// the in-memory record set.
type GatewayMetrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	errors        *prometheus.CounterVec
	rows          *prometheus.CounterVec
	recordsLoaded prometheus.Gauge
	pendingRows   prometheus.Gauge
	lastLoad      prometheus.Gauge
	loads         *prometheus.CounterVec
	loadDuration  prometheus.Histogram
}

var (
	gatewayMetricsOnce sync.Once
	gatewayMetrics     *GatewayMetrics
)

// Gateway returns the process-wide gateway metrics registered on the
// default registry.
func Gateway(cfg Config) *GatewayMetrics {
	gatewayMetricsOnce.Do(func() {
		gatewayMetrics = newGatewayMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return gatewayMetrics
}

func newGatewayMetrics(registerer prometheus.Registerer, cfg Config) *GatewayMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "iomreport"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	m := &GatewayMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "iomreport_gateway_requests_total",
			Help:        "Remote store calls by operation and outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "iomreport_gateway_request_duration_seconds",
			Help:        "Remote store call latency.",
			Buckets:     []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "iomreport_gateway_errors_total",
			Help:        "Remote store failures by low-cardinality reason.",
			ConstLabels: constLabels,
		}, []string{"operation", "reason"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "iomreport_gateway_rows_total",
			Help:        "Rows read from or written to the remote store.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		recordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "iomreport_records_loaded",
			Help:        "Records currently held by the dashboard.",
			ConstLabels: constLabels,
		}),
		pendingRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "iomreport_pending_rows",
			Help:        "Rows staged by an import and not yet committed.",
			ConstLabels: constLabels,
		}),
		lastLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "iomreport_last_successful_load_timestamp_seconds",
			Help:        "Unix time of the last successful remote fetch.",
			ConstLabels: constLabels,
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "iomreport_loads_total",
			Help:        "Dashboard loads by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "iomreport_load_duration_seconds",
			Help:        "Time from load start to the record set being replaced.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			ConstLabels: constLabels,
		}),
	}

	registerer.MustRegister(m.requests, m.duration, m.errors, m.rows, m.recordsLoaded, m.pendingRows, m.lastLoad, m.loads, m.loadDuration)
	return m
}

// ObserveCall records one remote call. err may be nil.
func (m *GatewayMetrics) ObserveCall(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if err != nil {
		m.requests.WithLabelValues(operation, "error").Inc()
		m.errors.WithLabelValues(operation, ClassifyGatewayError(err)).Inc()
		return
	}
	m.requests.WithLabelValues(operation, "ok").Inc()
}

func (m *GatewayMetrics) AddRows(operation string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.rows.WithLabelValues(operation).Add(float64(count))
}

func (m *GatewayMetrics) SetRecordsLoaded(count int) {
	if m == nil {
		return
	}
	m.recordsLoaded.Set(float64(count))
}

func (m *GatewayMetrics) SetPendingRows(count int) {
	if m == nil {
		return
	}
	m.pendingRows.Set(float64(count))
}

func (m *GatewayMetrics) MarkLoaded(at time.Time) {
	if m == nil {
		return
	}
	m.lastLoad.Set(float64(at.Unix()))
}

// ObserveLoad records how a load ended.
func (m *GatewayMetrics) ObserveLoad(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(outcome).Inc()
	m.loadDuration.Observe(time.Since(started).Seconds())
}

// ClassifyGatewayError maps a gateway failure to a metric reason.
func ClassifyGatewayError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return GatewayReasonDeadlineExceeded
	}
	remoteErr, ok := domain.AsRemoteError(err)
	if !ok {
		return GatewayReasonTransport
	}
	switch {
	case remoteErr.SchemaMissing():
		return GatewayReasonSchemaMissing
	case remoteErr.Status == http.StatusUnauthorized || remoteErr.Status == http.StatusForbidden:
		return GatewayReasonUnauthorized
	case remoteErr.Status == 0 && remoteErr.Code == "":
		return GatewayReasonTransport
	default:
		return GatewayReasonRemote
	}
}
