package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/iomreport/internal/config"
)

const (
	keyLoginAttempts = "iomreport:login:%s"
	keyCommitLock    = "iomreport:commit:lock"
)

// ErrCommitInProgress is returned when another process holds the commit lock.
var ErrCommitInProgress = errors.New("commit_in_progress")

// Guard throttles admin sign-in attempts and serializes destructive
// commits across processes that share a redis. A nil or disabled Guard
// allows everything.
type Guard struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	loginRate  float64
	loginBurst int
	lockTTL    time.Duration
}

func NewGuard(cfg config.Config, client *redis.Client) (*Guard, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}
	if client == nil {
		return nil, errors.New("rate limit requires a redis client")
	}
	if limitCfg.LoginRate <= 0 || limitCfg.LoginBurst <= 0 {
		return nil, errors.New("login rate limit must be positive")
	}
	ttl := limitCfg.CommitLockTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &Guard{
		enabled:    true,
		bucket:     NewTokenBucket(client),
		locker:     NewLocker(client),
		loginRate:  limitCfg.LoginRate,
		loginBurst: limitCfg.LoginBurst,
		lockTTL:    ttl,
	}, nil
}

func (g *Guard) Enabled() bool {
	return g != nil && g.enabled
}

// AllowLogin spends one sign-in attempt for the client address.
func (g *Guard) AllowLogin(ctx context.Context, clientIP string) (Result, error) {
	if !g.Enabled() {
		return Result{Allowed: true}, nil
	}
	return g.bucket.Allow(ctx, fmt.Sprintf(keyLoginAttempts, strings.TrimSpace(clientIP)), g.loginRate, g.loginBurst)
}

// LockCommit takes the commit lock and returns its release func.
func (g *Guard) LockCommit(ctx context.Context) (func(), error) {
	if !g.Enabled() {
		return func() {}, nil
	}
	lease, ok, err := g.locker.Acquire(ctx, keyCommitLock, g.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCommitInProgress
	}
	return func() {
		_ = lease.Release(context.WithoutCancel(ctx))
	}, nil
}
