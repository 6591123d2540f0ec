package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/repository"
)

var _ repository.BookingRepository = (*bookingRepo)(nil)

type bookingRepo struct{ pool *pgxpool.Pool }

func NewBookingRepo(pool *pgxpool.Pool) *bookingRepo {
	return &bookingRepo{pool: pool}
}

const bookingColumns = `id, customer_email, event_date, amount, paid, status, payment_reference, created_at`

func (r *bookingRepo) Save(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	const q = `
INSERT INTO bookings (` + bookingColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  event_date = EXCLUDED.event_date,
  amount = EXCLUDED.amount,
  status = EXCLUDED.status;`

	_, err := execSQL(ctx, r.pool, tx, q,
		b.ID, b.CustomerEmail, b.EventDate, b.Amount, b.Paid, string(b.Status), b.PaymentReference, b.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *bookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1;`

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	b := &model.Booking{}
	var status string
	if err := row.Scan(&b.ID, &b.CustomerEmail, &b.EventDate, &b.Amount, &b.Paid, &status, &b.PaymentReference, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	b.Status = model.BookingStatus(status)
	return b, nil
}

// MarkPaid flips the booking to CONFIRMED at most once. The paid guard makes
// webhook replays no-ops.
func (r *bookingRepo) MarkPaid(ctx context.Context, tx repository.Tx, id, reference string) (bool, error) {
	const q = `
UPDATE bookings
   SET paid = TRUE, status = 'CONFIRMED', payment_reference = $2
 WHERE id = $1 AND paid = FALSE;`

	cmd, err := execSQL(ctx, r.pool, tx, q, id, reference)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	if cmd.RowsAffected() >= 1 {
		return true, nil
	}
	// Zero rows: either already paid or unknown id.
	if _, err := r.FindByID(ctx, tx, id); err != nil {
		return false, err
	}
	return false, nil
}
