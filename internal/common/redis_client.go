package common

import (
	"context"
	"time"

	"aerocleanse/etl/internal/config"
	"aerocleanse/etl/internal/logging"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client for the run lock and pings it once.
// A failed ping is logged and the client is still returned; the pool reconnects on use.
func NewRedisClient(cfg *config.Config) *redis.Client {
	addr := cfg.RedisAddr()
	logging.Info("Initializing Redis client", "addr", addr, "db", cfg.Lock.Redis.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Lock.Redis.Password,
		DB:           cfg.Lock.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("Failed to ping Redis", "addr", addr, "error", err.Error())
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
