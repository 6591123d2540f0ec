package model

import (
	"time"

	"mixpool-commerce/internal/domain"
)

// SubscriptionPlan is a purchasable music-pool plan with a fixed duration
// and tier. Price is in the minor currency unit.
type SubscriptionPlan struct {
	ID           string
	Name         string
	Tier         TierAccess
	DurationDays int
	Price        int64
	CreatedAt    time.Time
}

func (p *SubscriptionPlan) IsZero() bool { return p == nil || p.ID == "" }

// NewSubscriptionPlan validates and constructs a plan.
func NewSubscriptionPlan(id, name string, tier TierAccess, durationDays int, price int64) (*SubscriptionPlan, error) {
	if id == "" || name == "" || durationDays <= 0 || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if tier != TierBasic && tier != TierPro {
		return nil, domain.ErrInvalidArgument
	}
	return &SubscriptionPlan{
		ID:           id,
		Name:         name,
		Tier:         tier,
		DurationDays: durationDays,
		Price:        price,
		CreatedAt:    time.Now(),
	}, nil
}

// Duration converts the plan length to a time.Duration.
func (p *SubscriptionPlan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}
