package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO orders (id, user_id, items, total, status, is_paid, payment_method, payment_reference, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  user_id=$2, items=$3, total=$4, status=$5, is_paid=orders.is_paid OR $6, payment_method=$7, payment_reference=$8, updated_at=$10;`

	if _, err := execSQL(ctx, r.pool, tx, q, o.ID, o.UserID, items, o.Total, o.Status, o.IsPaid, o.PaymentMethod, o.PaymentReference, o.CreatedAt, o.UpdatedAt); err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	const q = `SELECT id, user_id, items, total, status, is_paid, payment_method, payment_reference, created_at, updated_at FROM orders WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	o := &model.Order{}
	var items []byte
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.Total, &o.Status, &o.IsPaid, &o.PaymentMethod, &o.PaymentReference, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return o, nil
}

// MarkPaid flips is_paid only when it is still false, so a paid order can
// never be re-processed or regress. The row count tells the caller whether
// this call was the one that paid it.
func (r *orderRepo) MarkPaid(ctx context.Context, tx repository.Tx, id, reference string) (bool, error) {
	const q = `
UPDATE orders
   SET is_paid = TRUE,
       status = 'PROCESSING',
       payment_reference = $2,
       updated_at = NOW()
 WHERE id = $1
   AND is_paid = FALSE;`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, reference)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		// Distinguish "already paid" from "no such order".
		if _, ferr := r.FindByID(ctx, tx, id); ferr != nil {
			return false, ferr
		}
		return false, nil
	}
	return true, nil
}

func (r *orderRepo) ListUnpaidOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time, limit int) ([]*model.Order, error) {
	const q = `
SELECT id, user_id, items, total, status, is_paid, payment_method, payment_reference, created_at, updated_at
  FROM orders
 WHERE is_paid = FALSE
   AND payment_reference <> ''
   AND status = 'ORDER_PLACED'
   AND created_at < $1
 ORDER BY created_at
 LIMIT $2;`

	rows, err := queryRows(ctx, r.pool, tx, q, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o := &model.Order{}
		var items []byte
		if err := rows.Scan(&o.ID, &o.UserID, &items, &o.Total, &o.Status, &o.IsPaid, &o.PaymentMethod, &o.PaymentReference, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, domain.ErrOperationFailed
	}
	return orders, nil
}
