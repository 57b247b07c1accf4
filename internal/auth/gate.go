// Package auth implements the admin gate. It hides the admin screen
// behind a single configured credential; it does not protect the remote
// backend, which enforces its own access rules.
package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/iomreport/internal/auth/password"
	"github.com/smallbiznis/iomreport/internal/clock"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Screens a client can select.
const (
	ViewViewer = "view"
	ViewAdmin  = "admin"
)

const DefaultSessionTTL = 12 * time.Hour

// Session is an admin login.
type Session struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	token     string
}

func (s Session) Token() string {
	return s.token
}

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Clock  clock.Clock      `optional:"true"`
	Guard  *ratelimit.Guard `optional:"true"`
}

type Gate struct {
	username string
	hash     string
	ttl      time.Duration
	guard    *ratelimit.Guard
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

func NewGate(p Params) (*Gate, error) {
	hash, err := password.Hash(p.Config.AdminPassword)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if p.Clock != nil {
		now = p.Clock.Now
	}
	return &Gate{
		username: strings.TrimSpace(p.Config.AdminUsername),
		hash:     hash,
		ttl:      DefaultSessionTTL,
		guard:    p.Guard,
		log:      p.Log.Named("auth.gate"),
		now:      now,
		sessions: make(map[string]Session),
	}, nil
}

// Login checks the credential and opens a session. clientIP is used for
// attempt limiting when a guard is configured.
func (g *Gate) Login(ctx context.Context, clientIP, username, secret string) (Session, error) {
	result, err := g.guard.AllowLogin(ctx, clientIP)
	if err != nil {
		g.log.Warn("login limiter unavailable", zap.Error(err))
	} else if !result.Allowed {
		return Session{}, &LimitedError{RetryAfter: result.RetryAfter}
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(g.username)) == 1
	passOK := password.Verify(secret, g.hash)
	if !userOK || !passOK {
		g.log.Info("admin login rejected", zap.String("client_ip", clientIP))
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		Username:  g.username,
		ExpiresAt: g.now().Add(g.ttl),
		token:     uuid.NewString(),
	}

	g.mu.Lock()
	g.pruneLocked()
	g.sessions[session.token] = session
	g.mu.Unlock()

	g.log.Info("admin logged in", zap.String("client_ip", clientIP))
	return session, nil
}

// Authenticate resolves a token to its live session.
func (g *Gate) Authenticate(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrInvalidSession
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	session, ok := g.sessions[token]
	if !ok {
		return Session{}, ErrInvalidSession
	}
	if !g.now().Before(session.ExpiresAt) {
		delete(g.sessions, token)
		return Session{}, ErrInvalidSession
	}
	return session, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, strings.TrimSpace(token))
	g.mu.Unlock()
}

func (g *Gate) pruneLocked() {
	now := g.now()
	for token, session := range g.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(g.sessions, token)
		}
	}
}

// NormalizeView validates a screen name.
func NormalizeView(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ViewViewer:
		return ViewViewer, nil
	case ViewAdmin:
		return ViewAdmin, nil
	default:
		return "", ErrInvalidView
	}
}
