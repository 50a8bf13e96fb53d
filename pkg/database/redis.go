package database

import (
	"context"
	"time"

	"go-pos-inventory/pkg/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ConnectRedis returns nil when Redis is not configured or unreachable;
// callers fall back to in-process implementations.
func ConnectRedis(cfg config.RedisConfig, log zerolog.Logger) *redis.Client {
	if !cfg.Enabled() {
		log.Info().Msg("REDIS_ADDR not set, caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("failed to connect to redis, caching disabled")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", cfg.Addr).Msg("redis connected")
	return client
}
