package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("format", "pdf"),
		attribute.String("buyer", "H&M"),
		attribute.String("source", "file"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "format" || attrs[1].Key != "source" {
		t.Fatalf("unexpected attributes %v", attrs)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordImport(context.Background(), "file", 3)
	m.RecordExport(context.Background(), "pdf")
	m.RecordCommit(context.Background(), "ok")
	m.RecordCacheFallback(context.Background())
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.RecordImport(context.Background(), "url", 10)
}
