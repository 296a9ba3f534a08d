package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	redisclient "github.com/zatekoja/teamfeedback/internal/infrastructure/clients/redis"
)

// keyPrefix namespaces every key so the database can be shared
const keyPrefix = "teamfeedback:"

// RedisAdapter stores dashboard snapshots in Redis
type RedisAdapter struct {
	rdb *redis.Client
}

var _ providers.CacheProvider = (*RedisAdapter)(nil)

func NewRedisAdapter(client *redisclient.Client) *RedisAdapter {
	return &RedisAdapter{rdb: client.Client()}
}

func namespaced(keys ...string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = keyPrefix + k
	}
	return out
}

// Get returns providers.ErrCacheMiss for absent or expired keys
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.rdb.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, providers.ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value for ttl. A non-positive ttl is rejected: dashboard
// snapshots must always expire.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("cache set %s: ttl must be positive", key)
	}
	if err := a.rdb.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys in a single round trip
func (a *RedisAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := a.rdb.Del(ctx, namespaced(keys...)...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.rdb.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists %s: %w", key, err)
	}
	return n > 0, nil
}
