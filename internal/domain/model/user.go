package model

import (
	"time"

	"mixpool-commerce/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusNone    SubscriptionStatus = "none"
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User carries the subscription entitlement fields the pipeline mutates.
// While SubscriptionStatus is active, SubscriptionExpiresAt must be in the
// future; the expiry sweep demotes stale ones.
type User struct {
	ID                    string
	Email                 string
	Role                  Role
	SubscriptionStatus    SubscriptionStatus
	SubscriptionTier      TierAccess
	SubscriptionExpiresAt *time.Time
	RegisteredAt          time.Time
}

// NewUser validates and constructs a user with no subscription.
func NewUser(id, email string) (*User, error) {
	if id == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:                 id,
		Email:              email,
		Role:               RoleUser,
		SubscriptionStatus: SubscriptionStatusNone,
		RegisteredAt:       time.Now(),
	}, nil
}

// SubscriptionCovers reports whether the user's active subscription grants
// access to a product of the given tier. Pro covers basic; nothing covers
// paid products, those need an order.
func (u *User) SubscriptionCovers(tier TierAccess, now time.Time) bool {
	if u.SubscriptionStatus != SubscriptionStatusActive {
		return false
	}
	if u.SubscriptionExpiresAt == nil || !now.Before(*u.SubscriptionExpiresAt) {
		return false
	}
	switch tier {
	case TierBasic:
		return u.SubscriptionTier == TierBasic || u.SubscriptionTier == TierPro
	case TierPro:
		return u.SubscriptionTier == TierPro
	default:
		return false
	}
}
