package cache

import (
	"context"
	"log"
	"time"

	"stayhub/config"

	"github.com/redis/go-redis/v9"
)

// Connect returns a redis client, or nil when no address is configured or
// the server is unreachable. Callers degrade gracefully on nil.
func Connect(cfg *config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] unreachable at %s, rate limiting falls back to in-memory: %v", cfg.Addr, err)
		return nil
	}
	return client
}
