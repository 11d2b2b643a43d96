package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/notify-relay/internal/lock"
	goredis "github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "lock:"

// releaseScript deletes the lock only if this lease still owns it, so a
// lease that outlived its TTL cannot release a lock re-acquired by
// another worker.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ lock.Locker = (*RedisLocker)(nil)

// RedisLocker is a distributed advisory lock backed by Redis SET NX.
type RedisLocker struct {
	client   *goredis.Client
	newToken func() string
}

func NewRedisLocker(client *goredis.Client) (*RedisLocker, error) {
	return newRedisLocker(client, uuid.NewString)
}

func newRedisLocker(client *goredis.Client, tokenFn func() string) (*RedisLocker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if tokenFn == nil {
		tokenFn = uuid.NewString
	}

	return &RedisLocker{
		client:   client,
		newToken: tokenFn,
	}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (lock.Lease, bool, error) {
	if l == nil || l.client == nil {
		return nil, false, fmt.Errorf("locker is not initialized")
	}

	normalizedKey := strings.TrimSpace(key)
	if normalizedKey == "" {
		return nil, false, fmt.Errorf("lock key is required")
	}
	if ttl <= 0 {
		return nil, false, fmt.Errorf("lock ttl must be positive")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	token := l.newToken()
	acquired, err := l.client.SetNX(ctx, lockKeyPrefix+normalizedKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}

	return &redisLease{
		client: l.client,
		key:    lockKeyPrefix + normalizedKey,
		token:  token,
	}, true, nil
}

type redisLease struct {
	client *goredis.Client
	key    string
	token  string
}

func (le *redisLease) Release(ctx context.Context) error {
	if le == nil || le.client == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := releaseScript.Run(ctx, le.client, []string{le.key}, le.token).Err(); err != nil && err != goredis.Nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}
