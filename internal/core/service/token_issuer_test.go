package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookinghub/booking-system/internal/core/domain"
)

func TestNewTokenIssuer_RejectsWeakSecret(t *testing.T) {
	cases := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"short", "tooshort"},
		{"just under minimum", "0123456789abcdef0123456789abcde"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issuer, err := NewTokenIssuer(tc.secret, "booking-api", "booking-clients", time.Hour)
			if !errors.Is(err, domain.ErrSigningConfig) {
				t.Fatalf("expected ErrSigningConfig, got %v", err)
			}
			if issuer != nil {
				t.Fatalf("expected nil issuer on weak secret")
			}
		})
	}
}

func TestTokenIssuer_Issue(t *testing.T) {
	const ttl = 30 * time.Minute
	issuer, err := NewTokenIssuer(testSecret, "booking-api", "booking-clients", ttl)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	before := time.Now().UTC()
	token, err := issuer.Issue("user-42", "Grace Gold", []string{domain.RoleHost})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}

	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
	if claims.Name != "Grace Gold" {
		t.Fatalf("unexpected name: %q", claims.Name)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != domain.RoleHost {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
	if claims.Issuer != "booking-api" {
		t.Fatalf("unexpected issuer: %q", claims.Issuer)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != "booking-clients" {
		t.Fatalf("unexpected audience: %v", claims.Audience)
	}

	// exp == iat + ttl, and iat is anchored at issuance.
	gap := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if gap != ttl {
		t.Fatalf("expected exp-iat of %v, got %v", ttl, gap)
	}
	if claims.IssuedAt.Time.Before(before.Add(-time.Second)) || claims.IssuedAt.Time.After(before.Add(time.Second)) {
		t.Fatalf("iat %v not within 1s of issuance %v", claims.IssuedAt.Time, before)
	}
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, "booking-api", "booking-clients", 0)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	if issuer.ttl != time.Hour {
		t.Fatalf("expected 1h default TTL, got %v", issuer.ttl)
	}
}
