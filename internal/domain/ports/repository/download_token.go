package repository

import (
	"context"

	"mixpool-commerce/internal/domain/model"
)

type DownloadTokenRepository interface {
	Save(ctx context.Context, tx Tx, t *model.DownloadToken) error
	Find(ctx context.Context, tx Tx, token string) (*model.DownloadToken, error)
	// Redeem atomically increments download_count when the token is unexpired
	// and under its limit. Returns domain.ErrNotFound, domain.ErrTokenExpired
	// or domain.ErrQuotaExhausted otherwise.
	Redeem(ctx context.Context, tx Tx, token string) (*model.DownloadToken, error)
	AppendLog(ctx context.Context, tx Tx, l *model.DownloadLog) error
}
