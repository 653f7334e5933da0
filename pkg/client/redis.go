package client

import (
	"context"
	"time"

	"tourbook/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// SetRedis connects fail-soft: a missing or unreachable Redis leaves
// c.Redis nil and the service degrades (OTP verification unavailable)
// instead of refusing to start.
func (c *Client) SetRedis(log *logger.Logger, redisURL string) {
	if redisURL == "" {
		log.Warn("Redis URL not configured, skipping Redis")
		return
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("Invalid Redis URL, continuing without Redis", "error", err)
		return
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, continuing without Redis", "error", err)
		_ = client.Close()
		return
	}

	log.Info("Successfully connected to Redis")
	c.Redis = client
}
