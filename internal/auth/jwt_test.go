package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewHMACSigner_EmptySecret(t *testing.T) {
	if _, err := NewHMACSigner("", "iss"); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("err = %v; want ErrEmptySecret", err)
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	s, err := NewHMACSigner("secret", "qa")
	if err != nil {
		t.Fatalf("NewHMACSigner: %v", err)
	}
	exp := time.Now().Add(24 * time.Hour)
	tok, err := s.Sign("alice", exp)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("not a compact JWS: %q", tok)
	}

	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "alice" || claims.Issuer != "qa" || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if d := claims.ExpiresAt.Time.Sub(exp); d > time.Second || d < -time.Second {
		t.Fatalf("expiry drift %v", d)
	}

	sub, err := s.Subject(tok)
	if err != nil || sub != "alice" {
		t.Fatalf("Subject = %q, %v", sub, err)
	}
}

func TestVerify_Rejects(t *testing.T) {
	s, _ := NewHMACSigner("secret", "qa")

	// expired
	expired, _ := s.Sign("alice", time.Now().Add(-time.Minute))
	if _, err := s.Verify(expired); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expired: err = %v; want ErrTokenExpired", err)
	}

	// wrong key
	other, _ := NewHMACSigner("other", "qa")
	foreign, _ := other.Sign("alice", time.Now().Add(time.Hour))
	if _, err := s.Verify(foreign); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("foreign: err = %v; want ErrTokenSignatureInvalid", err)
	}

	// wrong issuer
	wrongIss, _ := NewHMACSigner("secret", "someone-else")
	tok, _ := wrongIss.Sign("alice", time.Now().Add(time.Hour))
	if _, err := s.Verify(tok); !errors.Is(err, jwt.ErrTokenInvalidIssuer) {
		t.Fatalf("issuer: err = %v; want ErrTokenInvalidIssuer", err)
	}

	// alg=none
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "qa",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := s.Verify(none); err == nil {
		t.Fatalf("alg=none token must be rejected")
	}

	// garbage
	if _, err := s.Subject("not-a-token"); err == nil {
		t.Fatalf("garbage token must be rejected")
	}
}

func TestVerify_NoIssuerCheckWhenEmpty(t *testing.T) {
	s, _ := NewHMACSigner("secret", "")
	issuing, _ := NewHMACSigner("secret", "anyone")
	tok, _ := issuing.Sign("bob", time.Now().Add(time.Hour))
	if sub, err := s.Subject(tok); err != nil || sub != "bob" {
		t.Fatalf("Subject = %q, %v", sub, err)
	}
}
