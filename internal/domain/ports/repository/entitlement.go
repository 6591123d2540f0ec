package repository

import (
	"context"

	"mixpool-commerce/internal/domain/model"
)

// EntitlementRepository is the single canonical store for per-user product
// access. Both mutations must be atomic with respect to concurrent requests
// for the same (user, product) pair: Grant is an upsert-increment, Consume is
// a conditional decrement, never read-modify-write in application code.
type EntitlementRepository interface {
	// Grant creates the access record with one download, or increments an
	// existing record by one (repurchase semantics, never a reset).
	Grant(ctx context.Context, tx Tx, userID, productID, reference string) error
	// Consume atomically decrements downloads_remaining when the record is
	// present, unexpired and has quota, returning the new remaining count.
	// Otherwise it returns domain.ErrPurchaseRequired, domain.ErrQuotaExhausted
	// or domain.ErrEntitlementExpired.
	Consume(ctx context.Context, tx Tx, userID, productID string) (remaining int, err error)
	Find(ctx context.Context, tx Tx, userID, productID string) (*model.ProductAccess, error)
}
