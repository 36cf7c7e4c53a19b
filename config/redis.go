// vibe-planner/config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// ConnectRedis connects to redis when an address is configured. Without one
// the app runs with caching disabled.
func ConnectRedis(ctx context.Context, cfg RedisConfig) {
	if cfg.Addr == "" {
		slog.Warn("REDIS_ADDR not set, caching will be disabled.")
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := RDB.Ping(ctx).Result(); err != nil {
		slog.Error("Could not connect to Redis", "error", err, "addr", cfg.Addr)
		RDB = nil // callers check for nil and skip caching
		return
	}

	slog.Info("Connected to Redis", "addr", cfg.Addr)
}

// CloseRedis closes the redis connection, if any.
func CloseRedis() {
	if RDB == nil {
		return
	}
	if err := RDB.Close(); err != nil {
		slog.Warn("Failed to close Redis client", "error", err)
	}
	RDB = nil
}
