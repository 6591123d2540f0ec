//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"mixpool-commerce/internal/domain"
)

// --- Order Model Tests ---

func TestNewOrder(t *testing.T) {
	items := []OrderItem{{ProductID: "p1", Quantity: 2, UnitPrice: 1500}, {ProductID: "p2", Quantity: 1, UnitPrice: 500}}

	t.Run("should create an unpaid order with computed total", func(t *testing.T) {
		order, err := NewOrder("o1", nil, items, "paystack")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if order.Total != 3500 {
			t.Errorf("expected total 3500, but got %d", order.Total)
		}
		if order.IsPaid {
			t.Error("expected new order to be unpaid")
		}
		if order.Status != OrderStatusPlaced {
			t.Errorf("expected status ORDER_PLACED, but got %s", order.Status)
		}
	})

	t.Run("should fail with no items", func(t *testing.T) {
		_, err := NewOrder("o1", nil, nil, "paystack")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, but got %v", err)
		}
	})

	t.Run("should fail with a zero-quantity item", func(t *testing.T) {
		_, err := NewOrder("o1", nil, []OrderItem{{ProductID: "p1", Quantity: 0, UnitPrice: 100}}, "paystack")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, but got %v", err)
		}
	})
}

// --- Product Model Tests ---

func TestProductFileAt(t *testing.T) {
	p, err := NewProduct("p1", "Summer Mix Vol. 3", TierPaid, 5000, []ProductFile{
		{URL: "https://cdn.example.com/a.mp3", Name: "a.mp3", Size: 100},
		{URL: "https://cdn.example.com/b.wav", Name: "b.wav", Size: 200},
	})
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}

	t.Run("should return the file at a valid index", func(t *testing.T) {
		f, err := p.FileAt(1)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if f.Name != "b.wav" {
			t.Errorf("expected b.wav, but got %s", f.Name)
		}
	})

	t.Run("should reject a negative index", func(t *testing.T) {
		if _, err := p.FileAt(-1); !errors.Is(err, domain.ErrFileIndexOutOfRange) {
			t.Errorf("expected ErrFileIndexOutOfRange, but got %v", err)
		}
	})

	t.Run("should reject an index past the end", func(t *testing.T) {
		if _, err := p.FileAt(2); !errors.Is(err, domain.ErrFileIndexOutOfRange) {
			t.Errorf("expected ErrFileIndexOutOfRange, but got %v", err)
		}
	})
}

// --- DownloadToken Model Tests ---

func TestDownloadTokenUsability(t *testing.T) {
	now := time.Now()
	limit := 2

	t.Run("should be usable one second before expiry", func(t *testing.T) {
		tok := DownloadToken{ExpiresAt: now.Add(time.Second)}
		if tok.Expired(now) {
			t.Error("expected token not to be expired")
		}
	})

	t.Run("should be expired one second after expiry", func(t *testing.T) {
		tok := DownloadToken{ExpiresAt: now.Add(-time.Second)}
		if !tok.Expired(now) {
			t.Error("expected token to be expired")
		}
	})

	t.Run("should be exhausted at max downloads", func(t *testing.T) {
		tok := DownloadToken{MaxDownloads: &limit, DownloadCount: 2}
		if !tok.Exhausted() {
			t.Error("expected token to be exhausted")
		}
	})

	t.Run("should never exhaust without a limit", func(t *testing.T) {
		tok := DownloadToken{DownloadCount: 1 << 20}
		if tok.Exhausted() {
			t.Error("expected unlimited token not to exhaust")
		}
	})
}

// --- User Subscription Tests ---

func TestUserSubscriptionCovers(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	t.Run("pro subscription covers basic products", func(t *testing.T) {
		u := User{SubscriptionStatus: SubscriptionStatusActive, SubscriptionTier: TierPro, SubscriptionExpiresAt: &future}
		if !u.SubscriptionCovers(TierBasic, now) {
			t.Error("expected pro to cover basic")
		}
	})

	t.Run("basic subscription does not cover pro products", func(t *testing.T) {
		u := User{SubscriptionStatus: SubscriptionStatusActive, SubscriptionTier: TierBasic, SubscriptionExpiresAt: &future}
		if u.SubscriptionCovers(TierPro, now) {
			t.Error("expected basic not to cover pro")
		}
	})

	t.Run("expired subscription covers nothing", func(t *testing.T) {
		u := User{SubscriptionStatus: SubscriptionStatusActive, SubscriptionTier: TierPro, SubscriptionExpiresAt: &past}
		if u.SubscriptionCovers(TierBasic, now) {
			t.Error("expected expired subscription to cover nothing")
		}
	})

	t.Run("no subscription never covers paid products", func(t *testing.T) {
		u := User{SubscriptionStatus: SubscriptionStatusActive, SubscriptionTier: TierPro, SubscriptionExpiresAt: &future}
		if u.SubscriptionCovers(TierPaid, now) {
			t.Error("paid products require an order, never a subscription")
		}
	})
}

// --- EventMetadata Tests ---

func TestEventMetadataKind(t *testing.T) {
	cases := map[string]EventKind{
		"subscription": EventKindSubscription,
		"booking":      EventKindBooking,
		"product":      EventKindProduct,
		"":             EventKindProduct,
		"mystery":      EventKindProduct,
	}
	for typ, want := range cases {
		if got := (EventMetadata{Type: typ}).Kind(); got != want {
			t.Errorf("Kind(%q) = %s, want %s", typ, got, want)
		}
	}
}
