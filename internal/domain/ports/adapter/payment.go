package adapter

import (
	"context"

	"mixpool-commerce/internal/domain/model"
)

// PaymentGateway talks to the payment provider's verify API. Used by the
// client-initiated verify route and the reconciler; webhook deliveries carry
// the event inline and only need signature verification.
type PaymentGateway interface {
	Name() string
	// VerifyReference asks the provider for the authoritative state of a
	// charge. Returns domain.ErrPaymentNotVerified when the provider reports
	// anything other than success.
	VerifyReference(ctx context.Context, reference string) (*model.PaymentEvent, error)
}
