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

var _ repository.EntitlementRepository = (*entitlementRepo)(nil)

// entitlementRepo is the single canonical product-access store. Both
// mutations are single conditional statements so that concurrent requests
// for the same (user, product) pair cannot lose updates.
type entitlementRepo struct{ pool *pgxpool.Pool }

func NewEntitlementRepo(pool *pgxpool.Pool) *entitlementRepo {
	return &entitlementRepo{pool: pool}
}

func (r *entitlementRepo) Grant(ctx context.Context, tx repository.Tx, userID, productID, reference string) error {
	const q = `
INSERT INTO product_access (user_id, product_id, downloads_remaining, last_purchased_at, last_reference)
VALUES ($1, $2, 1, NOW(), $3)
ON CONFLICT (user_id, product_id) DO UPDATE SET
  downloads_remaining = product_access.downloads_remaining + 1,
  last_purchased_at = NOW(),
  last_reference = $3;`

	if _, err := execSQL(ctx, r.pool, tx, q, userID, productID, reference); err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

// Consume decrements only when the record has quota and is unexpired. Two
// tabs racing for the last download hit the same guard; exactly one wins.
func (r *entitlementRepo) Consume(ctx context.Context, tx repository.Tx, userID, productID string) (int, error) {
	const q = `
UPDATE product_access
   SET downloads_remaining = downloads_remaining - 1,
       last_downloaded_at = NOW()
 WHERE user_id = $1
   AND product_id = $2
   AND downloads_remaining > 0
   AND (expires_at IS NULL OR expires_at > NOW())
RETURNING downloads_remaining;`

	row, err := pickRow(ctx, r.pool, tx, q, userID, productID)
	if err != nil {
		return 0, err
	}
	var remaining int
	if err := row.Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, r.classifyRejection(ctx, tx, userID, productID)
		}
		return 0, domain.ErrReadDatabaseRow
	}
	return remaining, nil
}

// classifyRejection tells the caller which precondition failed when the
// conditional decrement matched no row.
func (r *entitlementRepo) classifyRejection(ctx context.Context, tx repository.Tx, userID, productID string) error {
	a, err := r.Find(ctx, tx, userID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPurchaseRequired
		}
		return err
	}
	if a.ExpiresAt != nil && !time.Now().Before(*a.ExpiresAt) {
		return domain.ErrEntitlementExpired
	}
	return domain.ErrQuotaExhausted
}

func (r *entitlementRepo) Find(ctx context.Context, tx repository.Tx, userID, productID string) (*model.ProductAccess, error) {
	const q = `
SELECT user_id, product_id, downloads_remaining, expires_at, last_purchased_at, last_downloaded_at
  FROM product_access WHERE user_id=$1 AND product_id=$2;`

	row, err := pickRow(ctx, r.pool, tx, q, userID, productID)
	if err != nil {
		return nil, err
	}
	a := &model.ProductAccess{}
	if err := row.Scan(&a.UserID, &a.ProductID, &a.DownloadsRemaining, &a.ExpiresAt, &a.LastPurchasedAt, &a.LastDownloadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}
