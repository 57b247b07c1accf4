package context

import (
	"context"
	"testing"
)

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), " load-1 ")

	got, id := EnsureCorrelationID(ctx)
	if id != "load-1" {
		t.Fatalf("expected existing id, got %q", id)
	}
	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
}

func TestEnsureCorrelationIDGenerates(t *testing.T) {
	ctx, id := EnsureCorrelationID(context.Background())
	if len(id) != 26 {
		t.Fatalf("expected ulid, got %q", id)
	}
	if CorrelationIDFromContext(ctx) != id {
		t.Fatalf("expected id on context")
	}

	_, other := EnsureCorrelationID(context.Background())
	if other == id {
		t.Fatalf("expected fresh id per call")
	}
}

func TestContextValues(t *testing.T) {
	ctx := WithActor(WithRequestID(context.Background(), "req-1"), "admin")
	if RequestIDFromContext(ctx) != "req-1" || ActorFromContext(ctx) != "admin" {
		t.Fatalf("unexpected values: %q %q", RequestIDFromContext(ctx), ActorFromContext(ctx))
	}
}
