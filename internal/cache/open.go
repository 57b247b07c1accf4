package cache

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	"github.com/smallbiznis/iomreport/pkg/db"
	"go.uber.org/zap"
)

// Open builds the store selected by cfg. A store that cannot be opened is
// logged and replaced by one that holds nothing, so the dashboard keeps
// running without a local copy. The returned close func is never nil.
func Open(cfg config.Config, client *redis.Client, log *zap.Logger, opts ...db.Option) (Store, func() error) {
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.Cache.Driver == config.CacheDriverRedis {
		store, err := NewRedisStore(client, cfg.Cache.RedisKey, log)
		if err != nil {
			return disabled(log, config.CacheDriverRedis, err), noClose
		}
		return store, noClose
	}

	store, err := NewSQLiteStore(cfg.Cache.SQLitePath, log, opts...)
	if err != nil {
		return disabled(log, config.CacheDriverSQLite, err), noClose
	}
	return store, store.Close
}

func noClose() error { return nil }

func disabled(log *zap.Logger, driver string, err error) *nopStore {
	log = log.Named("cache")
	log.Warn("local cache unavailable, continuing without it",
		zap.String("driver", driver),
		zap.Error(err),
	)
	return &nopStore{log: log}
}

// nopStore stands in for a cache that failed to open.
type nopStore struct {
	log *zap.Logger
}

func (s *nopStore) SaveAll(_ context.Context, records []domain.Record) error {
	s.log.Debug("local cache unavailable, snapshot skipped", zap.Int("records", len(records)))
	return nil
}

func (s *nopStore) LoadAll(context.Context) []domain.Record {
	return nil
}
