package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/pkg/config"
	"github.com/zatekoja/teamfeedback/pkg/retry"
)

// Client wraps the go-redis client shared by the dashboard cache and the
// event bus
type Client struct {
	rdb *redis.Client
}

// startupRetry is shorter than the database one: Redis is optional and the
// API starts without it.
var startupRetry = retry.Config{
	MaxAttempts:     3,
	InitialDelay:    200 * time.Millisecond,
	MaxDelay:        time.Second,
	BackoffFactor:   2,
	MaxTotalTimeout: 10 * time.Second,
}

// NewClient connects to Redis, retrying the initial ping a few times
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	err := retry.Do(context.Background(), startupRetry, "redis",
		func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			return rdb.Ping(pingCtx).Err()
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Redis connection attempt failed")
		},
	)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr(), err)
	}

	log.Info().Str("addr", cfg.RedisAddr()).Int("db", cfg.DB).Msg("connected to Redis")
	return &Client{rdb: rdb}, nil
}

// NewClientFromRedis wraps an existing go-redis client
func NewClientFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Client returns the underlying go-redis client
func (c *Client) Client() *redis.Client {
	return c.rdb
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping is used by the health endpoint
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
