package adapter

import (
	"context"
	"time"
)

// Locker serializes concurrent work on the same key across instances.
// The event processor locks on the payment reference so that duplicate
// webhook deliveries racing each other collapse to a single winner.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
