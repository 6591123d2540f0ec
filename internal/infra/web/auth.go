package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mixpool-commerce/internal/domain/model"
)

// ===== Session/JWT primitives =====

type AuthManager struct {
	secret []byte
	ttl    time.Duration
}

func NewAuthManager(secret string, ttl time.Duration) *AuthManager {
	return &AuthManager{secret: []byte(secret), ttl: ttl}
}

// UserClaims carries the caller identity the download endpoints need: who is
// asking and whether they hold the admin role.
type UserClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (c *UserClaims) UserID() string { return c.Subject }

func (c *UserClaims) UserRole() model.Role {
	if c.Role == string(model.RoleAdmin) {
		return model.RoleAdmin
	}
	return model.RoleUser
}

// Mint signs a token for the given user. Used by the seed tool and tests;
// production tokens come from the storefront's auth service with the same
// secret.
func (a *AuthManager) Mint(userID string, role model.Role) (string, error) {
	now := time.Now()
	claims := UserClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseFromRequest accepts Authorization: Bearer <jwt>.
func (a *AuthManager) ParseFromRequest(r *http.Request) (*UserClaims, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" {
		return nil, errors.New("missing token")
	}
	if !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return nil, errors.New("malformed authorization header")
	}
	return a.parse(strings.TrimSpace(hdr[7:]))
}

func (a *AuthManager) parse(tok string) (*UserClaims, error) {
	claims := &UserClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

type claimsCtxKey struct{}

func claimsInto(ctx context.Context, c *UserClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, c)
}

func claimsFrom(ctx context.Context) (*UserClaims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(*UserClaims)
	return c, ok
}
