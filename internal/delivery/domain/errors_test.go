package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestRemoteErrorFormat(t *testing.T) {
	err := &RemoteError{Message: "relation missing", Details: "table delivery_records", Code: "42P01"}
	want := "relation missing | Details: table delivery_records | Code: 42P01"
	if got := err.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := (&RemoteError{Message: "only message"}).Error(); got != "only message" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&RemoteError{}).Error(); got != "Unknown error" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestRemoteErrorSchemaMissing(t *testing.T) {
	for _, code := range []string{"PGRST205", "PGRST204", "42P01", "42703", "1146", "1054"} {
		if !(&RemoteError{Code: code}).SchemaMissing() {
			t.Fatalf("code %s should be schema missing", code)
		}
	}
	if (&RemoteError{Code: "23505"}).SchemaMissing() {
		t.Fatal("unique violation is not a schema problem")
	}
}

func TestWrapRemoteError(t *testing.T) {
	if WrapRemoteError(nil) != nil {
		t.Fatal("nil should stay nil")
	}

	base := errors.New("dial tcp: connection refused")
	wrapped := WrapRemoteError(base)
	remoteErr, ok := AsRemoteError(wrapped)
	if !ok {
		t.Fatal("expected RemoteError")
	}
	if remoteErr.Message != base.Error() || !errors.Is(wrapped, base) {
		t.Fatalf("unexpected wrap %+v", remoteErr)
	}

	original := &RemoteError{Message: "x", Code: "PGRST205"}
	if got, _ := AsRemoteError(WrapRemoteError(fmt.Errorf("fetch: %w", original))); got != original {
		t.Fatal("existing RemoteError should be returned as is")
	}
}
