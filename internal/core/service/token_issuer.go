package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookinghub/booking-system/internal/core/domain"
)

// minSecretBytes is the smallest signing key accepted for HS256. Shorter
// secrets are rejected outright rather than padded.
const minSecretBytes = 32

// TokenClaims is the claim set embedded in issued tokens.
type TokenClaims struct {
	jwt.RegisteredClaims
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// TokenIssuer mints HS256-signed JWTs carrying subject, display name and role
// claims. It holds only immutable configuration and is safe for concurrent use.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenIssuer validates the signing configuration up front so a weak or
// missing secret fails at startup, not on the first login.
func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) (*TokenIssuer, error) {
	if len(secret) < minSecretBytes {
		return nil, domain.ErrSigningConfig
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}, nil
}

// Issue builds and signs a token for the given subject. Expiry is issuance
// time plus the configured TTL; all timestamps are UTC.
func (t *TokenIssuer) Issue(subjectID, displayName string, roles []string) (string, error) {
	if len(t.secret) < minSecretBytes {
		return "", domain.ErrSigningConfig
	}

	now := time.Now().UTC()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Name:  displayName,
		Roles: roles,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}
