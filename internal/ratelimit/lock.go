package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

// Deletes the key only while it still holds the caller's token.
const leaseReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var errLockerUnavailable = errors.New("lock client not configured")

// Locker hands out single-holder leases on redis keys.
type Locker struct {
	client  *redis.Client
	release *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client:  client,
		release: redis.NewScript(leaseReleaseScript),
	}
}

// Lease is a held lock. It expires on its own after the ttl it was
// acquired with.
type Lease struct {
	Key       string
	ExpiresAt time.Time

	locker *Locker
	token  string
	once   sync.Once
}

// Acquire takes key for ttl. ok is false when another holder has it.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, bool, error) {
	switch {
	case l == nil || l.client == nil:
		return nil, false, errLockerUnavailable
	case key == "":
		return nil, false, errors.New("lock key is empty")
	case ttl <= 0:
		return nil, false, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	return &Lease{
		Key:       key,
		ExpiresAt: time.Now().Add(ttl),
		locker:    l,
		token:     token,
	}, true, nil
}

// Release gives the lease back. Only the first call reaches redis.
func (le *Lease) Release(ctx context.Context) error {
	if le == nil || le.locker == nil {
		return nil
	}
	var err error
	le.once.Do(func() {
		err = le.locker.release.Run(ctx, le.locker.client, []string{le.Key}, le.token).Err()
	})
	return err
}
