// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"activity-registry/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the Redis client
type RedisClient struct {
	Client *redis.Client
}

// NewRedis creates a new Redis client
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return &RedisClient{Client: rdb}, nil
}

// ConnectRedis creates a client and pings it. The client is closed when the
// ping fails, so callers retrying the connection do not leak pools.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	c, err := NewRedis(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.pingOrClose(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RedisClient) pingOrClose(ctx context.Context) error {
	err := c.Ping(ctx)
	if err != nil {
		c.Close()
	}
	return err
}

// NewRedisFromClient wraps an existing client, e.g. one pointed at miniredis.
func NewRedisFromClient(rdb *redis.Client) *RedisClient {
	return &RedisClient{Client: rdb}
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// Publish sends a message on a pub/sub channel and returns the receiver count.
func (c *RedisClient) Publish(ctx context.Context, channel string, message interface{}) (int64, error) {
	n, err := c.Client.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, fmt.Errorf("redis publish to %s failed: %w", channel, err)
	}
	return n, nil
}

// AppendStream adds an entry to a capped stream so late subscribers can replay recent events.
func (c *RedisClient) AppendStream(ctx context.Context, stream string, maxLen int64, values map[string]interface{}) (string, error) {
	id, err := c.Client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxLen,
		Approx: true,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("redis xadd to %s failed: %w", stream, err)
	}
	return id, nil
}

// GetClient returns the underlying *redis.Client for compatibility
func (c *RedisClient) GetClient() *redis.Client {
	return c.Client
}
