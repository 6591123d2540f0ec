package model

import "time"

type TransactionType string

const (
	TransactionTypePurchase     TransactionType = "purchase"
	TransactionTypeSubscription TransactionType = "subscription"
	TransactionTypeBooking      TransactionType = "booking"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction is the append-only financial audit row. Reference is unique;
// the insert-once-per-reference rule is the idempotency guard for the whole
// pipeline. Rows are never mutated after creation.
//
// OrderID/BookingID/UserID are nullable on purpose: when the linked entity
// cannot be resolved the money is still recorded, just unattributed.
type Transaction struct {
	ID        string // ULID, sortable by creation time
	Reference string
	Type      TransactionType
	Amount    int64
	Status    TransactionStatus
	Email     string
	OrderID   *string
	BookingID *string
	UserID    *string
	CreatedAt time.Time
}
