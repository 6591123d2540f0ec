package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mixpool-commerce/internal/domain"
	"mixpool-commerce/internal/domain/model"
	"mixpool-commerce/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*PaystackGateway)(nil)

// PaystackGateway implements the verify API using direct HTTP calls.
type PaystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackGateway creates a gateway against the given API base URL
// (https://api.paystack.co in production, an httptest server in tests).
func NewPaystackGateway(secretKey, baseURL string) *PaystackGateway {
	return &PaystackGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *PaystackGateway) Name() string { return "paystack" }

// paystackVerifyResponse represents the response from the transaction verify API.
type paystackVerifyResponse struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    model.PaymentEvent `json:"data"`
}

// VerifyReference implements PaymentGateway.VerifyReference by asking the
// provider for the authoritative charge state. Anything other than a
// successful charge maps to domain.ErrPaymentNotVerified.
func (g *PaystackGateway) VerifyReference(ctx context.Context, reference string) (*model.PaymentEvent, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var response paystackVerifyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if !response.Status {
		return nil, fmt.Errorf("paystack error: %s: %w", response.Message, domain.ErrPaymentNotVerified)
	}
	if !response.Data.Succeeded() {
		return nil, fmt.Errorf("charge status %q: %w", response.Data.Status, domain.ErrPaymentNotVerified)
	}
	if response.Data.Reference != reference {
		return nil, fmt.Errorf("reference mismatch: asked %s got %s: %w", reference, response.Data.Reference, domain.ErrPaymentNotVerified)
	}

	return &response.Data, nil
}
