// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"airport-query-engine/internal/common/config"

	"github.com/redis/go-redis/v9"
)

const healthKey = "health"

// RedisClient wraps the client backing the response cache. Every key the
// engine writes starts with KeyPrefix.
type RedisClient struct {
	Client    *redis.Client
	KeyPrefix string
}

func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
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

	return &RedisClient{Client: rdb, KeyPrefix: cfg.KeyPrefix}, nil
}

// Key places key in the client's namespace.
func (c *RedisClient) Key(key string) string {
	return c.KeyPrefix + key
}

// Ping writes a short-lived health key, so a read-only replica fails it.
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Set(ctx, c.Key(healthKey), time.Now().Unix(), 10*time.Second).Err(); err != nil {
		return fmt.Errorf("redis write check: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}
