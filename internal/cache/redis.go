package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	operationalPrefix = "ops:"
	configPrefix      = "cfg:"
)

// RedisPort stores cache items in redis, prefixing keys by namespace.
type RedisPort struct {
	client *redis.Client
	prefix string
}

type RedisOption func(*RedisPort)

// WithKeyPrefix puts every key, in both namespaces, under prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(p *RedisPort) { p.prefix = prefix }
}

func NewRedisPort(client *redis.Client, opts ...RedisOption) *RedisPort {
	p := &RedisPort{client: client}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *RedisPort) GetOperationalItem(ctx context.Context, key string) ([]byte, bool, error) {
	return p.get(ctx, p.prefix+operationalPrefix+key)
}

func (p *RedisPort) SetOperationalItem(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.set(ctx, p.prefix+operationalPrefix+key, value, ttl)
}

func (p *RedisPort) GetConfigItem(ctx context.Context, key string) ([]byte, bool, error) {
	return p.get(ctx, p.prefix+configPrefix+key)
}

func (p *RedisPort) SetConfigItem(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.set(ctx, p.prefix+configPrefix+key, value, ttl)
}

func (p *RedisPort) get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (p *RedisPort) set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return p.client.Set(ctx, key, value, ttl).Err()
}
