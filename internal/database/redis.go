package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/aitutor/academy/internal/config"
)

// NewRedis parses the configured URL, connects, and pings before returning.
// Redis backs the auth rate limiter only; session state itself is stateless.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}
