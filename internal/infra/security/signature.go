// File: internal/infra/security/signature.go
package security

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
)

// WebhookVerifier authenticates provider webhook deliveries. Paystack signs
// every delivery with a hex HMAC-SHA512 of the exact raw body bytes, keyed by
// the account secret key. Verification MUST run against the unmodified bytes;
// re-serializing the JSON first breaks the signature.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if secret == "" {
		return nil, errors.New("webhook secret is empty")
	}
	return &WebhookVerifier{secret: []byte(secret)}, nil
}

// Verify reports whether signature is the valid hex HMAC-SHA512 of body.
// Comparison is constant-time.
func (v *WebhookVerifier) Verify(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the hex HMAC-SHA512 of body. Used by tests and by outbound
// internal replays.
func (v *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
