package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
)

func TestClassifyGatewayError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: fmt.Errorf("fetch: %w", context.DeadlineExceeded), want: GatewayReasonDeadlineExceeded},
		{name: "schema", err: &domain.RemoteError{Code: "PGRST205", Status: 404}, want: GatewayReasonSchemaMissing},
		{name: "unauthorized", err: &domain.RemoteError{Message: "Invalid API key", Status: 401}, want: GatewayReasonUnauthorized},
		{name: "remote", err: &domain.RemoteError{Code: "23505", Status: 409}, want: GatewayReasonRemote},
		{name: "transport_wrapped", err: domain.WrapRemoteError(errors.New("dial tcp")), want: GatewayReasonTransport},
		{name: "plain", err: errors.New("boom"), want: GatewayReasonTransport},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyGatewayError(tc.err); got != tc.want {
				t.Fatalf("expected reason %q, got %q", tc.want, got)
			}
		})
	}
}

func TestObserveCall(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newGatewayMetrics(registry, Config{ServiceName: "iomreport", Environment: "test"})

	m.ObserveCall(GatewayOpInsert, time.Now(), nil)
	m.ObserveCall(GatewayOpInsert, time.Now(), &domain.RemoteError{Code: "42703"})
	m.AddRows(GatewayOpInsert, 40)
	m.SetPendingRows(12)

	if got := testutil.ToFloat64(m.requests.WithLabelValues(GatewayOpInsert, "ok")); got != 1 {
		t.Fatalf("expected 1 ok call, got %v", got)
	}
	if got := testutil.ToFloat64(m.errors.WithLabelValues(GatewayOpInsert, GatewayReasonSchemaMissing)); got != 1 {
		t.Fatalf("expected 1 schema error, got %v", got)
	}
	if got := testutil.ToFloat64(m.rows.WithLabelValues(GatewayOpInsert)); got != 40 {
		t.Fatalf("expected 40 rows, got %v", got)
	}
	if got := testutil.ToFloat64(m.pendingRows); got != 12 {
		t.Fatalf("expected 12 pending rows, got %v", got)
	}
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := newHTTPMetrics(registry)

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/records", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/records", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/records", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
}

func TestObserveLoad(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newGatewayMetrics(registry, Config{ServiceName: "iomreport", Environment: "test"})

	m.ObserveLoad(LoadOutcomeRemote, time.Now())
	m.ObserveLoad(LoadOutcomeStale, time.Now())
	m.ObserveLoad(LoadOutcomeRemote, time.Now())

	if got := testutil.ToFloat64(m.loads.WithLabelValues(LoadOutcomeRemote)); got != 2 {
		t.Fatalf("expected 2 remote loads, got %v", got)
	}
	if got := testutil.ToFloat64(m.loads.WithLabelValues(LoadOutcomeStale)); got != 1 {
		t.Fatalf("expected 1 stale load, got %v", got)
	}

	var nilMetrics *GatewayMetrics
	nilMetrics.ObserveLoad(LoadOutcomeFailed, time.Now())
}
