package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/iomreport/internal/clock"
	"github.com/smallbiznis/iomreport/internal/config"
	"go.uber.org/zap"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	gate, err := NewGate(Params{
		Config: config.Config{AdminUsername: "admin", AdminPassword: "banglalink12345"},
		Log:    zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	return gate
}

func TestLoginAndAuthenticate(t *testing.T) {
	gate := newTestGate(t)

	session, err := gate.Login(context.Background(), "127.0.0.1", " admin ", "banglalink12345")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token() == "" || session.Username != "admin" {
		t.Fatalf("unexpected session %+v", session)
	}

	got, err := gate.Authenticate(session.Token())
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.Username != "admin" {
		t.Fatalf("expected admin, got %q", got.Username)
	}

	gate.Logout(session.Token())
	if _, err := gate.Authenticate(session.Token()); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected invalid session after logout, got %v", err)
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	gate := newTestGate(t)

	cases := []struct{ user, pass string }{
		{"admin", "wrong"},
		{"root", "banglalink12345"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := gate.Login(context.Background(), "127.0.0.1", tc.user, tc.pass); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s/%s: expected invalid credentials, got %v", tc.user, tc.pass, err)
		}
	}
}

func TestSessionExpires(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	gate, err := NewGate(Params{
		Config: config.Config{AdminUsername: "admin", AdminPassword: "banglalink12345"},
		Log:    zap.NewNop(),
		Clock:  fake,
	})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	session, err := gate.Login(context.Background(), "127.0.0.1", "admin", "banglalink12345")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fake.Advance(DefaultSessionTTL - time.Second)
	if _, err := gate.Authenticate(session.Token()); err != nil {
		t.Fatalf("expected live session, got %v", err)
	}

	fake.Advance(time.Second)
	if _, err := gate.Authenticate(session.Token()); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestAuthenticateEmptyToken(t *testing.T) {
	gate := newTestGate(t)
	if _, err := gate.Authenticate("  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected invalid session, got %v", err)
	}
}

func TestNormalizeView(t *testing.T) {
	for raw, want := range map[string]string{"view": ViewViewer, " Admin ": ViewAdmin} {
		got, err := NormalizeView(raw)
		if err != nil || got != want {
			t.Fatalf("%q: got %q, %v", raw, got, err)
		}
	}
	if _, err := NormalizeView("settings"); !errors.Is(err, ErrInvalidView) {
		t.Fatalf("expected invalid view, got %v", err)
	}
}

func TestLimitedErrorMatchesSentinel(t *testing.T) {
	err := error(&LimitedError{RetryAfter: time.Second})
	if !errors.Is(err, ErrLoginLimited) {
		t.Fatalf("expected limited error to match sentinel")
	}
}
