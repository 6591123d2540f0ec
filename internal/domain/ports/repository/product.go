package repository

import (
	"context"

	"mixpool-commerce/internal/domain/model"
)

type ProductRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Product) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Product, error)
	// IncrementDownloadCount bumps the aggregate counter. Best-effort; callers
	// log and continue on failure.
	IncrementDownloadCount(ctx context.Context, tx Tx, id string) error
}
