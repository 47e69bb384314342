// Package auth issues and verifies the bearer tokens handed out by /login.
//
// Tokens are HS256-signed JWTs carrying the registered claims sub, exp, iat,
// iss, and jti. The shared secret and issuer come from configuration.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrEmptySecret is returned by NewHMACSigner when no key material is given.
var ErrEmptySecret = errors.New("auth: signing secret must not be empty")

// HMACSigner signs and verifies HS256 tokens. It is safe for concurrent use.
type HMACSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewHMACSigner returns a signer for secret. issuer is written to and
// required on every token; an empty issuer disables the check.
func NewHMACSigner(secret, issuer string) (*HMACSigner, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &HMACSigner{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Sign issues a token for subject that expires at expiresAt.
func (s *HMACSigner) Sign(subject string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign: %w", err)
	}
	return tok, nil
}

// Verify parses token, checks the signature, algorithm, expiry, and issuer,
// and returns its claims.
func (s *HMACSigner) Verify(token string) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: verify: %w", err)
	}
	return claims, nil
}

// Subject verifies token and returns its subject claim.
func (s *HMACSigner) Subject(token string) (string, error) {
	claims, err := s.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
