package tracing

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Transport starts a client span around every outbound request and
// propagates the trace context.
type Transport struct {
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	ctx, span := otel.Tracer("iomreport/http-client").Start(req.Context(),
		"HTTP "+strings.ToUpper(req.Method)+" "+req.URL.Host,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	defer span.End()

	out := req.Clone(ctx)
	InjectContext(ctx, propagation.HeaderCarrier(out.Header))

	resp, err := base.RoundTrip(out)
	span.SetAttributes(SafeAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.url", RedactURL(req.URL.String())),
	)...)
	if err != nil {
		span.RecordError(SafeError(err))
		span.SetStatus(codes.Error, "transport error")
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}

// NewHTTPClient returns a traced client with the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &Transport{Base: http.DefaultTransport},
	}
}

// WrapHTTPClient adds tracing to an existing client.
func WrapHTTPClient(client *http.Client) *http.Client {
	if client == nil {
		return NewHTTPClient(0)
	}
	if _, ok := client.Transport.(*Transport); ok {
		return client
	}
	wrapped := *client
	wrapped.Transport = &Transport{Base: client.Transport}
	return &wrapped
}
