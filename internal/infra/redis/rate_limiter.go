package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter. Good enough to keep the public chat
// widget and the webhook endpoint from being hammered.
type RateLimiter struct {
	client RedisClient
}

func NewRateLimiter(client RedisClient) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, err
		}
	}

	return count <= int64(limit), nil
}

// ClientKey builds the rate-limit key for one client of one endpoint.
func ClientKey(clientIP, endpoint string) string {
	return fmt.Sprintf("rate_limit:%s:%s", clientIP, endpoint)
}
