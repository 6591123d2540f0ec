package model

// EventKind classifies what a payment event is paying for.
type EventKind string

const (
	EventKindProduct      EventKind = "product"
	EventKindSubscription EventKind = "subscription"
	EventKindBooking      EventKind = "booking"
)

// Kind resolves the metadata type, defaulting to a product order the same way
// the provider does for charge events without an explicit type.
func (m EventMetadata) Kind() EventKind {
	switch m.Type {
	case string(EventKindSubscription):
		return EventKindSubscription
	case string(EventKindBooking):
		return EventKindBooking
	default:
		return EventKindProduct
	}
}

// EventMetadata is the custom metadata bag we attach to every charge we
// initialize with the provider. It comes back verbatim on the webhook.
type EventMetadata struct {
	Type      string `json:"type"`
	OrderID   string `json:"order_id"`
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	PlanID    string `json:"plan_id"`
}

type EventCustomer struct {
	Email string `json:"email"`
}

// PaymentEvent is the provider charge payload. It is never persisted as-is;
// it drives transitions on orders, bookings and subscriptions.
type PaymentEvent struct {
	Reference string        `json:"reference"`
	Status    string        `json:"status"` // success | failed
	Amount    int64         `json:"amount"` // minor currency unit (kobo)
	Customer  EventCustomer `json:"customer"`
	Metadata  EventMetadata `json:"metadata"`
}

func (e *PaymentEvent) Succeeded() bool { return e.Status == "success" }

// WebhookEnvelope is the outer wire shape of a provider webhook delivery.
type WebhookEnvelope struct {
	Event string       `json:"event"`
	Data  PaymentEvent `json:"data"`
}
