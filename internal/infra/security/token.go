// File: internal/infra/security/token.go
package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// NewDownloadToken returns an unguessable bearer token: 32 random bytes,
// hex-encoded (256 bits of entropy).
func NewDownloadToken() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("rand token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
