package repository

import (
	"context"
	"time"

	"mixpool-commerce/internal/domain/model"
)

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	// ActivateSubscription sets the subscription fields in one statement.
	ActivateSubscription(ctx context.Context, tx Tx, userID string, tier model.TierAccess, expiresAt time.Time) error
	// ExpireSubscriptions demotes active subscriptions whose expiry has
	// passed, returning how many rows changed.
	ExpireSubscriptions(ctx context.Context, tx Tx, now time.Time) (int, error)
}
