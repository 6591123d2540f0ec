package repository

import (
	"context"

	"mixpool-commerce/internal/domain/model"
)

type BookingRepository interface {
	Save(ctx context.Context, tx Tx, b *model.Booking) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Booking, error)
	// MarkPaid confirms the booking and records the payment reference.
	// Returns false when it was already paid.
	MarkPaid(ctx context.Context, tx Tx, id, reference string) (bool, error)
}
