package model

import (
	"time"

	"mixpool-commerce/internal/domain"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "ORDER_PLACED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"` // minor currency unit
}

// Order records a storefront purchase. UserID is nil for guest checkout.
// IsPaid transitions false->true exactly once per successful payment
// reference and must never regress.
type Order struct {
	ID               string
	UserID           *string
	Items            []OrderItem
	Total            int64
	Status           OrderStatus
	IsPaid           bool
	PaymentMethod    string
	PaymentReference string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewOrder validates and constructs an unpaid order.
func NewOrder(id string, userID *string, items []OrderItem, method string) (*Order, error) {
	if id == "" || len(items) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	var total int64
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, domain.ErrInvalidArgument
		}
		total += it.UnitPrice * int64(it.Quantity)
	}
	now := time.Now()
	return &Order{
		ID:            id,
		UserID:        userID,
		Items:         items,
		Total:         total,
		Status:        OrderStatusPlaced,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
