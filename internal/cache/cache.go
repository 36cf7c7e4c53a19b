// Package cache is a thin, nil-safe string cache on top of redis.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores short-lived strings. A Cache without a redis client (or a nil
// *Cache) behaves as an always-empty cache.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Enabled reports whether values are actually stored.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached value and whether it was found.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if !c.Enabled() {
		return "", false
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("Redis GET command failed", "error", err, "key", key)
		}
		return "", false
	}
	return val, true
}

// Set stores value under key for ttl. Failures are logged, not returned.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("Failed to SET value to cache", "error", err, "key", key)
	}
}

// Del removes keys. Failures are logged, not returned.
func (c *Cache) Del(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Failed to invalidate cache", "error", err, "keys", keys)
	}
}
