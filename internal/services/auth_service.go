// Package services – AuthService
//
// AuthService validates a username/password pair against a single reference
// password and issues a time-limited signed token whose subject is the
// username. It is a stand-in for a real credential store; the shape of the
// contract (validate, then issue a signed expiring token) is what matters.
package services

import (
	"context"
	"crypto/subtle"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTokenTTL is the lifetime of tokens issued by Login.
const DefaultTokenTTL = 24 * time.Hour

// TokenSigner issues a signed token for subject, valid until expiresAt.
type TokenSigner interface {
	Sign(subject string, expiresAt time.Time) (string, error)
}

// AuthService performs the login check.
type AuthService struct {
	// Signer produces the token.
	Signer TokenSigner
	// Password is the reference password every login is compared with.
	Password string
	// TTL is the token lifetime; <= 0 means DefaultTokenTTL.
	TTL time.Duration
	// Now returns the issuance time; defaults to time.Now.
	Now func() time.Time
}

// NewAuthService constructs an AuthService with the default TTL.
func NewAuthService(signer TokenSigner, password string) *AuthService {
	return &AuthService{Signer: signer, Password: password, TTL: DefaultTokenTTL, Now: time.Now}
}

// Login returns a token for username when password matches the reference
// password, and ErrInvalidCredentials otherwise or when signing fails.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	_, span := tracer.Start(ctx, "AuthService.Login",
		trace.WithAttributes(attribute.String("qa.username", username)))
	defer span.End()

	if s.Password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) != 1 {
		span.SetStatus(codes.Error, "invalid credentials")
		return "", ErrInvalidCredentials
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	tok, err := s.Signer.Sign(username, now().Add(ttl))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sign failed")
		return "", ErrInvalidCredentials
	}
	return tok, nil
}
