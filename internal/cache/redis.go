package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang/snappy"
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/iomreport/internal/config"
	"github.com/smallbiznis/iomreport/internal/delivery/domain"
	obslogger "github.com/smallbiznis/iomreport/internal/observability/logger"
	"go.uber.org/zap"
)

// RedisStore keeps the record set as one snappy-compressed JSON value.
type RedisStore struct {
	client *redis.Client
	key    string
	log    *zap.Logger
}

func NewRedisStore(client *redis.Client, key string, log *zap.Logger) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("redis cache key is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{client: client, key: key, log: log.Named("cache.redis")}, nil
}

// NewRedisClient builds a client from the shared redis settings.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     strings.TrimSpace(cfg.Addr),
		Password: strings.TrimSpace(cfg.Password),
		DB:       cfg.DB,
	})
}

func (s *RedisStore) SaveAll(ctx context.Context, records []domain.Record) error {
	payload, err := encodeSnapshot(records)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, snappy.Encode(nil, payload), 0).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadAll(ctx context.Context) []domain.Record {
	log := obslogger.WithContext(ctx, s.log)

	compressed, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("cache read failed", zap.Error(err))
		}
		return nil
	}
	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		log.Warn("cache snapshot is corrupt", zap.Error(err))
		return nil
	}
	records, err := decodeSnapshot(payload)
	if err != nil {
		log.Warn("cache snapshot is corrupt", zap.Error(err))
		return nil
	}
	return records
}
