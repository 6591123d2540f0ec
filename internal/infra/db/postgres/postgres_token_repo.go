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

var _ repository.DownloadTokenRepository = (*downloadTokenRepo)(nil)

type downloadTokenRepo struct{ pool *pgxpool.Pool }

func NewDownloadTokenRepo(pool *pgxpool.Pool) *downloadTokenRepo {
	return &downloadTokenRepo{pool: pool}
}

const tokenColumns = `token, product_id, user_id, order_id, created_at, expires_at, max_downloads, download_count`

func (r *downloadTokenRepo) Save(ctx context.Context, tx repository.Tx, t *model.DownloadToken) error {
	const q = `
INSERT INTO download_tokens (` + tokenColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err := execSQL(ctx, r.pool, tx, q,
		t.Token, t.ProductID, t.UserID, t.OrderID, t.CreatedAt, t.ExpiresAt, t.MaxDownloads, t.DownloadCount)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *downloadTokenRepo) Find(ctx context.Context, tx repository.Tx, token string) (*model.DownloadToken, error) {
	const q = `SELECT ` + tokenColumns + ` FROM download_tokens WHERE token=$1;`

	row, err := pickRow(ctx, r.pool, tx, q, token)
	if err != nil {
		return nil, err
	}
	return scanDownloadToken(row)
}

// Redeem is the single mutation on the redemption path. The guard on expiry
// and count makes two concurrent redemptions of a one-download-left token
// resolve to exactly one success.
func (r *downloadTokenRepo) Redeem(ctx context.Context, tx repository.Tx, token string) (*model.DownloadToken, error) {
	const q = `
UPDATE download_tokens
   SET download_count = download_count + 1
 WHERE token = $1
   AND expires_at > NOW()
   AND (max_downloads IS NULL OR download_count < max_downloads)
RETURNING ` + tokenColumns + `;`

	row, err := pickRow(ctx, r.pool, tx, q, token)
	if err != nil {
		return nil, err
	}
	t, err := scanDownloadToken(row)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, r.classifyRejection(ctx, tx, token)
}

// classifyRejection distinguishes unknown, expired and exhausted tokens after
// the conditional increment matched no row.
func (r *downloadTokenRepo) classifyRejection(ctx context.Context, tx repository.Tx, token string) error {
	t, err := r.Find(ctx, tx, token)
	if err != nil {
		return err
	}
	if t.Expired(time.Now()) {
		return domain.ErrTokenExpired
	}
	return domain.ErrQuotaExhausted
}

func (r *downloadTokenRepo) AppendLog(ctx context.Context, tx repository.Tx, l *model.DownloadLog) error {
	const q = `
INSERT INTO download_logs (id, token, product_id, file_index, created_at)
VALUES ($1, $2, $3, $4, $5);`

	_, err := execSQL(ctx, r.pool, tx, q, l.ID, l.Token, l.ProductID, l.FileIndex, l.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanDownloadToken(row pgx.Row) (*model.DownloadToken, error) {
	t := &model.DownloadToken{}
	err := row.Scan(&t.Token, &t.ProductID, &t.UserID, &t.OrderID, &t.CreatedAt, &t.ExpiresAt, &t.MaxDownloads, &t.DownloadCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}
