// Package token signs and verifies capability tokens for file shares.
//
// A token is self-sufficient for cryptographic validity but carries no
// revocation state: decode success only proves the token was legitimately
// issued and has not reached its embedded expiry. Whether the grant is still
// acknowledged is the store's business.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peershare/peershare/internal/clock"
	"github.com/peershare/peershare/pkg/types"
)

const (
	typeShare = "share"

	// DefaultTTL applies when a grant request does not specify one.
	DefaultTTL = 7 * 24 * time.Hour
)

var (
	// ErrMalformed covers structural damage and bad signatures.
	ErrMalformed = errors.New("malformed or badly signed token")
	// ErrExpired means the token's own embedded expiry has passed.
	ErrExpired = errors.New("token expired")
)

// Codec issues and decodes share tokens with a process-wide HS256 secret.
type Codec struct {
	secret []byte
	clock  clock.Clock
}

// NewCodec fails when the secret is empty; callers treat that as fatal at
// startup rather than per call.
func NewCodec(secret string, clk clock.Clock) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is not configured")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Codec{secret: []byte(secret), clock: clk}, nil
}

// Issue signs a share token for the given grant. A non-positive ttl falls
// back to DefaultTTL.
func (c *Codec) Issue(fileID, grantor, grantee string, perms []types.Permission, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := c.clock.Now()
	claims := &types.ShareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   grantee,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:        typeShare,
		FileID:      fileID,
		Grantor:     grantor,
		Grantee:     grantee,
		Permissions: perms,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature and embedded expiry. The two failure modes are
// distinguishable for logging and tests; callers deny on both.
func (c *Codec) Decode(raw string) (*types.ShareClaims, error) {
	claims := &types.ShareClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !tkn.Valid || claims.Type != typeShare {
		return nil, ErrMalformed
	}
	return claims, nil
}
