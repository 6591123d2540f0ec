package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ pool *pgxpool.Pool }

func NewProductRepo(pool *pgxpool.Pool) *productRepo {
	return &productRepo{pool: pool}
}

func (r *productRepo) Save(ctx context.Context, tx repository.Tx, p *model.Product) error {
	files, err := json.Marshal(p.Files)
	if err != nil {
		return domain.ErrInvalidArgument
	}

	const q = `
INSERT INTO products (id, title, published, tier_access, price, download_limit, download_count, files, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  published = EXCLUDED.published,
  tier_access = EXCLUDED.tier_access,
  price = EXCLUDED.price,
  download_limit = EXCLUDED.download_limit,
  files = EXCLUDED.files;`

	if _, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.Title, p.Published, string(p.TierAccess), p.Price, p.DownloadLimit, p.DownloadCount, files, p.CreatedAt); err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Product, error) {
	const q = `
SELECT id, title, published, tier_access, price, download_limit, download_count, files, created_at
  FROM products WHERE id=$1;`

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	p := &model.Product{}
	var tier string
	var files []byte
	if err := row.Scan(&p.ID, &p.Title, &p.Published, &tier, &p.Price, &p.DownloadLimit, &p.DownloadCount, &files, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.TierAccess = model.TierAccess(tier)
	if len(files) > 0 {
		if err := json.Unmarshal(files, &p.Files); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return p, nil
}

func (r *productRepo) IncrementDownloadCount(ctx context.Context, tx repository.Tx, id string) error {
	const q = `UPDATE products SET download_count = download_count + 1 WHERE id=$1;`

	if _, err := execSQL(ctx, r.pool, tx, q, id); err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
