package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CACHE_DRIVER", "")

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr %q", cfg.HTTPAddr)
	}
	if cfg.Cache.Driver != CacheDriverSQLite {
		t.Fatalf("expected sqlite cache, got %q", cfg.Cache.Driver)
	}
	if cfg.UsesRedis() {
		t.Fatal("defaults should not need redis")
	}
	if cfg.AuthCookieSecure {
		t.Fatal("cookies should not be secure outside production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CACHE_DRIVER", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IMPORT_MAX_BYTES", "1024")
	t.Setenv("COMMIT_LOCK_TTL_SECONDS", "30")
	t.Setenv("RATE_LIMIT_LOGIN_RATE", "not-a-number")

	cfg := Load()
	if !cfg.AuthCookieSecure {
		t.Fatal("production should force secure cookies")
	}
	if cfg.Cache.Driver != CacheDriverRedis || !cfg.UsesRedis() {
		t.Fatalf("expected redis cache, got %q", cfg.Cache.Driver)
	}
	if cfg.Redis.DB != 3 || cfg.ImportMaxBytes != 1024 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.RateLimit.CommitLockTTL != 30*time.Second {
		t.Fatalf("unexpected lock ttl %v", cfg.RateLimit.CommitLockTTL)
	}
	if cfg.RateLimit.LoginRate != 0.2 {
		t.Fatalf("invalid float should fall back to default, got %v", cfg.RateLimit.LoginRate)
	}
}
