// File: internal/usecase/download_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/repository"
	"mixpool-commerce/internal/infra/logging"
	"mixpool-commerce/internal/infra/metrics"
	"mixpool-commerce/internal/infra/security"
)

// Compile-time check
var _ DownloadUseCase = (*downloadUC)(nil)

// IssuedToken is what the caller gets back from Issue.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// ResolvedFile is the redemption result: a pointer to the asset, never the
// bytes themselves.
type ResolvedFile struct {
	DownloadURL string
	FileName    string
	FileSize    int64
}

// DownloadUseCase issues and redeems short-lived download tokens.
type DownloadUseCase interface {
	// Issue gates token creation on the product's tier: paid products need an
	// order id, basic/pro products need a covering active subscription.
	// Admins bypass both checks through an explicit, logged path.
	Issue(ctx context.Context, productID, userID, orderID string, role model.Role) (*IssuedToken, error)
	// Redeem spends one use of the token and resolves the file at fileIndex.
	Redeem(ctx context.Context, token string, fileIndex int) (*ResolvedFile, error)
	// RequestDownload is the authenticated flow: consume one entitlement,
	// then issue a token for it. Returns the remaining download count.
	RequestDownload(ctx context.Context, userID string, role model.Role, productID string) (*IssuedToken, int, error)
}

type downloadUC struct {
	products     repository.ProductRepository
	tokens       repository.DownloadTokenRepository
	users        repository.UserRepository
	entitlements EntitlementUseCase
	tokenTTL     time.Duration
	log          *zerolog.Logger
}

func NewDownloadUseCase(
	products repository.ProductRepository,
	tokens repository.DownloadTokenRepository,
	users repository.UserRepository,
	entitlements EntitlementUseCase,
	tokenTTL time.Duration,
	logger *zerolog.Logger,
) *downloadUC {
	if tokenTTL <= 0 {
		tokenTTL = 48 * time.Hour
	}
	return &downloadUC{
		products:     products,
		tokens:       tokens,
		users:        users,
		entitlements: entitlements,
		tokenTTL:     tokenTTL,
		log:          logger,
	}
}

func (u *downloadUC) Issue(ctx context.Context, productID, userID, orderID string, role model.Role) (*IssuedToken, error) {
	if productID == "" {
		return nil, domain.ErrInvalidArgument
	}
	log := logging.With(ctx, u.log)

	product, err := u.products.FindByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	if !product.Published {
		return nil, domain.ErrProductUnpublished
	}

	if role == model.RoleAdmin {
		// Explicit bypass path: admins skip purchase and subscription checks,
		// and the grant is audited.
		log.Info().Str("product_id", productID).Str("user_id", userID).Msg("admin download bypass")
	} else if err := u.authorizeIssue(ctx, product, userID, orderID); err != nil {
		return nil, err
	}

	return u.mint(ctx, product, userID, orderID)
}

func (u *downloadUC) authorizeIssue(ctx context.Context, product *model.Product, userID, orderID string) error {
	switch product.TierAccess {
	case model.TierPaid:
		if orderID == "" {
			return domain.ErrPurchaseRequired
		}
		return nil
	case model.TierBasic, model.TierPro:
		if userID == "" {
			return domain.ErrSubscriptionNeeded
		}
		user, err := u.users.FindByID(ctx, nil, userID)
		if err != nil {
			return domain.ErrSubscriptionNeeded
		}
		if !user.SubscriptionCovers(product.TierAccess, time.Now()) {
			return domain.ErrSubscriptionNeeded
		}
		return nil
	default:
		return domain.ErrInvalidArgument
	}
}

func (u *downloadUC) mint(ctx context.Context, product *model.Product, userID, orderID string) (*IssuedToken, error) {
	raw, err := security.NewDownloadToken()
	if err != nil {
		return nil, err
	}
	tok := &model.DownloadToken{
		Token:        raw,
		ProductID:    product.ID,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(u.tokenTTL),
		MaxDownloads: product.DownloadLimit,
	}
	if userID != "" {
		tok.UserID = &userID
	}
	if orderID != "" {
		tok.OrderID = &orderID
	}
	if err := u.tokens.Save(ctx, nil, tok); err != nil {
		return nil, err
	}
	metrics.IncTokenIssued()
	return &IssuedToken{Token: tok.Token, ExpiresAt: tok.ExpiresAt}, nil
}

func (u *downloadUC) Redeem(ctx context.Context, token string, fileIndex int) (*ResolvedFile, error) {
	if token == "" {
		return nil, domain.ErrInvalidArgument
	}
	log := logging.With(ctx, u.log)

	// Resolve the file before spending the use: a bad index must not burn
	// one of the token's downloads.
	tok, err := u.tokens.Find(ctx, nil, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncRedemption("not_found")
		}
		return nil, err
	}
	product, err := u.products.FindByID(ctx, nil, tok.ProductID)
	if err != nil {
		return nil, err
	}
	file, err := product.FileAt(fileIndex)
	if err != nil {
		metrics.IncRedemption("bad_index")
		return nil, err
	}

	redeemed, err := u.tokens.Redeem(ctx, nil, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			metrics.IncRedemption("not_found")
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.IncRedemption("expired")
		case errors.Is(err, domain.ErrQuotaExhausted):
			metrics.IncRedemption("exhausted")
		}
		return nil, err
	}

	// Bookkeeping is best-effort: the redemption already spent the use.
	if err := u.tokens.AppendLog(ctx, nil, &model.DownloadLog{
		ID:        ulid.Make().String(),
		Token:     redeemed.Token,
		ProductID: redeemed.ProductID,
		FileIndex: fileIndex,
		CreatedAt: time.Now(),
	}); err != nil {
		log.Warn().Err(err).Msg("download log append failed")
	}
	if err := u.products.IncrementDownloadCount(ctx, nil, product.ID); err != nil {
		log.Warn().Err(err).Str("product_id", product.ID).Msg("product download counter bump failed")
	}

	metrics.IncRedemption("ok")
	return &ResolvedFile{DownloadURL: file.URL, FileName: file.Name, FileSize: file.Size}, nil
}

func (u *downloadUC) RequestDownload(ctx context.Context, userID string, role model.Role, productID string) (*IssuedToken, int, error) {
	if userID == "" || productID == "" {
		return nil, 0, domain.ErrInvalidArgument
	}
	log := logging.With(ctx, u.log)

	product, err := u.products.FindByID(ctx, nil, productID)
	if err != nil {
		return nil, 0, err
	}
	if !product.Published {
		return nil, 0, domain.ErrProductUnpublished
	}

	if role == model.RoleAdmin {
		log.Info().Str("product_id", productID).Str("user_id", userID).Msg("admin download bypass")
		tok, err := u.mint(ctx, product, userID, "")
		return tok, 0, err
	}

	remaining, err := u.entitlements.CheckAndConsume(ctx, userID, productID)
	if err != nil {
		return nil, 0, err
	}
	tok, err := u.mint(ctx, product, userID, "")
	if err != nil {
		return nil, remaining, err
	}
	return tok, remaining, nil
}
