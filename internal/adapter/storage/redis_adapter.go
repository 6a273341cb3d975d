package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a port.Cache backed by Redis, for hosts that share
// cart and catalog snapshots across processes. Expiry uses native key
// TTLs, so there is nothing to purge on read.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing client; the caller owns its lifecycle.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the value stored under key. Any Redis failure is treated
// as a miss; the caller refetches from the network.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value under key with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Remove unconditionally deletes key.
func (c *RedisCache) Remove(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
