//go:build !integration

package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mixpool-commerce/internal/domain"
)

func verifyServer(t *testing.T, wantAuth string, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestPaystackGateway_VerifyReference(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the charge for a successful verify", func(t *testing.T) {
		srv := verifyServer(t, "Bearer sk_test_key", http.StatusOK, `{
			"status": true,
			"message": "Verification successful",
			"data": {
				"reference": "ref-1",
				"status": "success",
				"amount": 250000,
				"customer": {"email": "buyer@example.com"},
				"metadata": {"type": "product", "order_id": "order-1"}
			}
		}`)
		defer srv.Close()

		gw := NewPaystackGateway("sk_test_key", srv.URL)
		ev, err := gw.VerifyReference(ctx, "ref-1")
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if ev.Amount != 250000 || ev.Metadata.OrderID != "order-1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	})

	t.Run("maps a failed charge to ErrPaymentNotVerified", func(t *testing.T) {
		srv := verifyServer(t, "Bearer sk_test_key", http.StatusOK, `{
			"status": true,
			"data": {"reference": "ref-2", "status": "failed", "amount": 1000}
		}`)
		defer srv.Close()

		gw := NewPaystackGateway("sk_test_key", srv.URL)
		if _, err := gw.VerifyReference(ctx, "ref-2"); !errors.Is(err, domain.ErrPaymentNotVerified) {
			t.Fatalf("expected ErrPaymentNotVerified, got %v", err)
		}
	})

	t.Run("maps an unknown reference to ErrNotFound", func(t *testing.T) {
		srv := verifyServer(t, "Bearer sk_test_key", http.StatusNotFound, `{"status": false, "message": "Transaction reference not found"}`)
		defer srv.Close()

		gw := NewPaystackGateway("sk_test_key", srv.URL)
		if _, err := gw.VerifyReference(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects a reference mismatch", func(t *testing.T) {
		srv := verifyServer(t, "Bearer sk_test_key", http.StatusOK, `{
			"status": true,
			"data": {"reference": "other-ref", "status": "success", "amount": 1000}
		}`)
		defer srv.Close()

		gw := NewPaystackGateway("sk_test_key", srv.URL)
		if _, err := gw.VerifyReference(ctx, "ref-3"); !errors.Is(err, domain.ErrPaymentNotVerified) {
			t.Fatalf("expected ErrPaymentNotVerified, got %v", err)
		}
	})
}
