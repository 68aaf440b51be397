// Package auth issues and verifies login session tokens and carries the
// resolved principal through request contexts. Session tokens share the
// signing secret with share tokens but carry a distinct type claim.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/pkg/types"
)

const (
	typeSession = "session"

	// SessionTTL matches the reference behavior of three-day logins.
	SessionTTL = 3 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid or expired session")

type principalKey struct{}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Email string
	Name  string
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the request principal, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// EncodeSession signs a session token for the principal.
func EncodeSession(secret string, p Principal, clk clock.Clock, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	now := clk.Now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: typeSession,
		Name: p.Name,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// DecodeSession verifies a session token and returns the principal it names.
// Share tokens are rejected here by the type claim.
func DecodeSession(secret, raw string, clk clock.Clock) (Principal, error) {
	claims := &types.SessionClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(clk.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid || claims.Type != typeSession || claims.Subject == "" {
		return Principal{}, ErrInvalidSession
	}
	return Principal{Email: claims.Subject, Name: claims.Name}, nil
}
