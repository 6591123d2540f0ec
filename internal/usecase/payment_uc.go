// File: internal/usecase/payment_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/adapter"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase covers the client-initiated verify path: when the browser
// lands back on the site before (or instead of) the webhook, the reference is
// verified against the provider and fed through the same idempotent
// processor, so both paths converge on one set of mutations.
type PaymentUseCase interface {
	VerifyAndProcess(ctx context.Context, reference string) (*model.PaymentEvent, error)
}

type paymentUC struct {
	gateway   adapter.PaymentGateway
	processor WebhookUseCase
	log       *zerolog.Logger
}

func NewPaymentUseCase(gateway adapter.PaymentGateway, processor WebhookUseCase, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{gateway: gateway, processor: processor, log: logger}
}

func (u *paymentUC) VerifyAndProcess(ctx context.Context, reference string) (*model.PaymentEvent, error) {
	if reference == "" {
		return nil, domain.ErrInvalidArgument
	}
	ev, err := u.gateway.VerifyReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := u.processor.Process(ctx, ev); err != nil && !IsBenignProcessError(err) {
		return nil, err
	}
	return ev, nil
}
