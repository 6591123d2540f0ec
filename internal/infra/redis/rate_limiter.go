package redis

import (
	"context"
	"fmt"
	"time"

	"mixpool-commerce/internal/domain/ports/adapter"
)

var _ adapter.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window counter shared across instances. The first
// increment in a window sets the TTL; every caller hitting the same key sees
// the same count.
type RateLimiter struct {
	client *Client
}

func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		err = r.client.Expire(ctx, key, window)
		if err != nil {
			return false, err
		}
	}

	if count > int64(limit) {
		return false, nil
	}

	return true, nil
}

// DownloadKey scopes the limit to one caller identity and route.
func DownloadKey(identity, route string) string {
	return fmt.Sprintf("rate_limit:%s:%s", identity, route)
}
