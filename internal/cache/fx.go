package cache

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("cache",
	fx.Provide(provideRedisClient),
	fx.Provide(provideStore),
)

// provideRedisClient returns nil when nothing is configured to use redis.
func provideRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if !cfg.UsesRedis() {
		return nil
	}
	client := NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

func provideStore(lc fx.Lifecycle, cfg config.Config, client *redis.Client, log *zap.Logger) Store {
	store, closeStore := Open(cfg, client, log, db.WithMetrics("cache"))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return closeStore()
		},
	})
	return store
}
