//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
)

func seedUserAndProduct(t *testing.T) (userID, productID string) {
	t.Helper()
	ctx := context.Background()

	user, err := model.NewUser(uuid.NewString(), uuid.NewString()+"@example.com")
	if err != nil {
		t.Fatalf("build user: %v", err)
	}
	if err := NewUserRepo(testPool).Save(ctx, nil, user); err != nil {
		t.Fatalf("save user: %v", err)
	}

	product, err := model.NewProduct(uuid.NewString(), "Test Mix", model.TierPaid, 10000,
		[]model.ProductFile{{URL: "https://cdn.example.com/mix.mp3", Name: "mix.mp3", Size: 1024}})
	if err != nil {
		t.Fatalf("build product: %v", err)
	}
	product.Published = true
	if err := NewProductRepo(testPool).Save(ctx, nil, product); err != nil {
		t.Fatalf("save product: %v", err)
	}
	return user.ID, product.ID
}

func TestEntitlementRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}
	ctx := context.Background()
	repo := NewEntitlementRepo(testPool)

	t.Run("Grant increments, never resets", func(t *testing.T) {
		cleanup(t)
		userID, productID := seedUserAndProduct(t)

		if err := repo.Grant(ctx, nil, userID, productID, "ref-1"); err != nil {
			t.Fatalf("first grant: %v", err)
		}
		if err := repo.Grant(ctx, nil, userID, productID, "ref-2"); err != nil {
			t.Fatalf("repurchase grant: %v", err)
		}

		access, err := repo.Find(ctx, nil, userID, productID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if access.DownloadsRemaining != 2 {
			t.Fatalf("expected 2 downloads after repurchase, got %d", access.DownloadsRemaining)
		}
	})

	t.Run("Consume decrements to zero then rejects", func(t *testing.T) {
		cleanup(t)
		userID, productID := seedUserAndProduct(t)
		if err := repo.Grant(ctx, nil, userID, productID, "ref-1"); err != nil {
			t.Fatalf("grant: %v", err)
		}

		remaining, err := repo.Consume(ctx, nil, userID, productID)
		if err != nil {
			t.Fatalf("consume: %v", err)
		}
		if remaining != 0 {
			t.Fatalf("expected 0 remaining, got %d", remaining)
		}

		if _, err := repo.Consume(ctx, nil, userID, productID); err != domain.ErrQuotaExhausted {
			t.Fatalf("expected ErrQuotaExhausted, got %v", err)
		}
	})

	t.Run("Consume without a purchase is rejected", func(t *testing.T) {
		cleanup(t)
		userID, productID := seedUserAndProduct(t)

		if _, err := repo.Consume(ctx, nil, userID, productID); err != domain.ErrPurchaseRequired {
			t.Fatalf("expected ErrPurchaseRequired, got %v", err)
		}
	})

	t.Run("Consume on an expired record is rejected", func(t *testing.T) {
		cleanup(t)
		userID, productID := seedUserAndProduct(t)
		if err := repo.Grant(ctx, nil, userID, productID, "ref-1"); err != nil {
			t.Fatalf("grant: %v", err)
		}
		past := time.Now().Add(-time.Hour)
		if _, err := testPool.Exec(ctx,
			`UPDATE product_access SET expires_at = $1 WHERE user_id = $2 AND product_id = $3`,
			past, userID, productID); err != nil {
			t.Fatalf("expire record: %v", err)
		}

		if _, err := repo.Consume(ctx, nil, userID, productID); err != domain.ErrEntitlementExpired {
			t.Fatalf("expected ErrEntitlementExpired, got %v", err)
		}
	})
}
