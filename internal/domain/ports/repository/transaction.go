package repository

import (
	"context"
	"time"

	"mixpool-commerce/internal/domain/model"
)

type TransactionRepository interface {
	// InsertOnce appends the audit row unless a row with the same reference
	// already exists. Returns inserted=false (and no error) on a duplicate
	// reference; this is the pipeline's idempotency guard.
	InsertOnce(ctx context.Context, tx Tx, t *model.Transaction) (inserted bool, err error)
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.Transaction, error)
	SumByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
	ListSince(ctx context.Context, tx Tx, since time.Time, limit int) ([]*model.Transaction, error)
}
