package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

const userColumns = `id, email, role, subscription_status, subscription_tier, subscription_expires_at, registered_at`

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  role = EXCLUDED.role,
  subscription_status = EXCLUDED.subscription_status,
  subscription_tier = EXCLUDED.subscription_tier,
  subscription_expires_at = EXCLUDED.subscription_expires_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		u.ID, u.Email, string(u.Role), string(u.SubscriptionStatus), string(u.SubscriptionTier), u.SubscriptionExpiresAt, u.RegisteredAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) ActivateSubscription(ctx context.Context, tx repository.Tx, userID string, tier model.TierAccess, expiresAt time.Time) error {
	const q = `
UPDATE users
   SET subscription_status = 'active',
       subscription_tier = $2,
       subscription_expires_at = $3
 WHERE id = $1;`

	cmd, err := execSQL(ctx, r.pool, tx, q, userID, string(tier), expiresAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) ExpireSubscriptions(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	const q = `
UPDATE users
   SET subscription_status = 'expired'
 WHERE subscription_status = 'active'
   AND subscription_expires_at <= $1;`

	cmd, err := execSQL(ctx, r.pool, tx, q, now)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return 0, err
		}
		return 0, domain.ErrOperationFailed
	}
	return int(cmd.RowsAffected()), nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role, status, tier string
	err := row.Scan(&u.ID, &u.Email, &role, &status, &tier, &u.SubscriptionExpiresAt, &u.RegisteredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	u.Role = model.Role(role)
	u.SubscriptionStatus = model.SubscriptionStatus(status)
	u.SubscriptionTier = model.TierAccess(tier)
	return u, nil
}
