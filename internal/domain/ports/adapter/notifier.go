package adapter

import (
	"context"
	"time"
)

// Notifier sends operator-facing notifications (new sale, new booking).
// Implementations are fire-and-forget: they log their own failures and a
// send error never aborts payment processing.
type Notifier interface {
	NotifySale(ctx context.Context, text string) error
}

// RateLimiter is a shared counter keyed by caller identity with a TTL window.
// Backed by Redis so limits hold across server instances.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
