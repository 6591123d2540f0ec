// File: internal/usecase/entitlement_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/repository"
	"mixpool-commerce/internal/infra/metrics"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase manages per-user product access records.
type EntitlementUseCase interface {
	// Grant adds one download to the user's access record for the product
	// (creating it with one when absent). Repurchase never resets the count.
	Grant(ctx context.Context, userID, productID, reference string) error
	// CheckAndConsume atomically spends one download and returns the new
	// remaining count. Rejections carry the specific unmet precondition:
	// domain.ErrPurchaseRequired, domain.ErrQuotaExhausted or
	// domain.ErrEntitlementExpired.
	CheckAndConsume(ctx context.Context, userID, productID string) (remaining int, err error)
	Find(ctx context.Context, userID, productID string) (*model.ProductAccess, error)
}

type entitlementUC struct {
	entitlements repository.EntitlementRepository
	log          *zerolog.Logger
}

func NewEntitlementUseCase(entitlements repository.EntitlementRepository, logger *zerolog.Logger) *entitlementUC {
	return &entitlementUC{entitlements: entitlements, log: logger}
}

func (u *entitlementUC) Grant(ctx context.Context, userID, productID, reference string) error {
	if userID == "" || productID == "" {
		return domain.ErrInvalidArgument
	}
	return u.entitlements.Grant(ctx, nil, userID, productID, reference)
}

func (u *entitlementUC) CheckAndConsume(ctx context.Context, userID, productID string) (int, error) {
	if userID == "" || productID == "" {
		return 0, domain.ErrInvalidArgument
	}
	remaining, err := u.entitlements.Consume(ctx, nil, userID, productID)
	switch {
	case err == nil:
		metrics.IncEntitlementConsume("ok")
	case errors.Is(err, domain.ErrPurchaseRequired):
		metrics.IncEntitlementConsume("purchase_required")
	case errors.Is(err, domain.ErrQuotaExhausted):
		metrics.IncEntitlementConsume("exhausted")
	case errors.Is(err, domain.ErrEntitlementExpired):
		metrics.IncEntitlementConsume("expired")
	}
	return remaining, err
}

func (u *entitlementUC) Find(ctx context.Context, userID, productID string) (*model.ProductAccess, error) {
	return u.entitlements.Find(ctx, nil, userID, productID)
}
