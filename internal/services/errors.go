// Package services defines the business logic for questions, answers, and
// login. This file centralizes the service-level error taxonomy so that
// service methods return predictable values and callers can check them with
// errors.Is.
//
// Translation into user-facing messages and HTTP status codes is performed at
// the handler layer (see handlers.failWith).
package services

import (
	"errors"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

var (
	// ErrInvalidIdentifier indicates an empty question or answer id.
	ErrInvalidIdentifier = domain.ErrInvalidIdentifier

	// ErrQuestionNotFound indicates that the target question of an update or
	// delete does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrAnswerNotFound indicates that a referenced answer does not exist.
	ErrAnswerNotFound = errors.New("answer not found")

	// ErrBadQueryParameter is returned when pagination parameters are missing,
	// malformed, or (in strict mode) outside the collection.
	ErrBadQueryParameter = errors.New("bad query parameter")

	// ErrMissingParameter is returned when a required form field is absent.
	ErrMissingParameter = errors.New("missing parameter")

	// ErrInvalidCredentials is returned on a failed login, including a failure
	// to sign the token.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
