package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/iomreport/internal/config"
)

func TestDisabledGuardAllowsEverything(t *testing.T) {
	guard, err := NewGuard(config.Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if guard.Enabled() {
		t.Fatal("guard should be disabled")
	}

	res, err := guard.AllowLogin(context.Background(), "10.0.0.1")
	if err != nil || !res.Allowed {
		t.Fatalf("expected login to be allowed, got %+v err=%v", res, err)
	}
	release, err := guard.LockCommit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()
}

func TestGuardRequiresRedis(t *testing.T) {
	cfg := config.Config{RateLimit: config.RateLimitConfig{Enabled: true, LoginRate: 1, LoginBurst: 1}}
	if _, err := NewGuard(cfg, nil); err == nil {
		t.Fatal("expected error without redis client")
	}
}

func TestBucketTTL(t *testing.T) {
	if got := bucketTTL(0.2, 5); got != 50*time.Second {
		t.Fatalf("expected 50s, got %v", got)
	}
	if got := bucketTTL(100, 1); got != time.Second {
		t.Fatalf("expected 1s floor, got %v", got)
	}
}

func TestNilTokenBucket(t *testing.T) {
	var bucket *TokenBucket
	if _, err := bucket.Allow(context.Background(), "k", 1, 1); err == nil {
		t.Fatal("expected error from nil bucket")
	}
	var locker *Locker
	if _, _, err := locker.Acquire(context.Background(), "k", time.Second); err == nil {
		t.Fatal("expected error from nil locker")
	}
	var lease *Lease
	if err := lease.Release(context.Background()); err != nil {
		t.Fatalf("nil release should be a no-op: %v", err)
	}
}
