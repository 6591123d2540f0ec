package repository

import (
	"context"
	"time"

	"mixpool-commerce/internal/domain/model"
)

type OrderRepository interface {
	Save(ctx context.Context, tx Tx, o *model.Order) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Order, error)
	// MarkPaid flips is_paid false->true and sets status/reference atomically.
	// Returns false when the order was already paid (no mutation), so paid
	// state never regresses and is never double-applied.
	MarkPaid(ctx context.Context, tx Tx, id, reference string) (bool, error)
	// ListUnpaidOlderThan returns unpaid orders created before cutoff that
	// carry a payment reference from checkout. The reconciler re-verifies
	// these against the provider in case the webhook never arrived.
	ListUnpaidOlderThan(ctx context.Context, tx Tx, cutoff time.Time, limit int) ([]*model.Order, error)
}
