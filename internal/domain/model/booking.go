package model

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a DJ event booking. It is confirmed when its deposit payment
// succeeds.
type Booking struct {
	ID               string
	CustomerEmail    string
	EventDate        time.Time
	Amount           int64
	Paid             bool
	Status           BookingStatus
	PaymentReference string
	CreatedAt        time.Time
}
