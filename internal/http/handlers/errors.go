// Package handlers defines the HTTP-layer error codes of the Q&A API and the
// single mapper that turns service errors into responses.
//
// Codes are lowercase snake_case and stable; clients branch on them.
//
// Mapping:
//
//	services.ErrInvalidIdentifier   400 invalid_identifier
//	services.ErrMissingParameter    400 missing_parameter
//	services.ErrBadQueryParameter   422 bad_query_parameter
//	services.ErrQuestionNotFound    404 not_found
//	services.ErrAnswerNotFound      404 not_found
//	services.ErrInvalidCredentials  401 unauthorized
//	anything else                   404 not_found (logged, detail withheld)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/http/middleware"
	"github.com/tbourn/go-qa-backend/internal/services"
	"github.com/tbourn/go-qa-backend/internal/utils"
)

const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeInvalidIdentifier = "invalid_identifier"
	ErrCodeMissingParameter  = "missing_parameter"
	ErrCodeBadQueryParameter = "bad_query_parameter"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeNotFound          = "not_found"
)

// failWith maps err onto the error envelope. Unrecognized errors are logged
// and answered as a plain 404 so internals never reach the client.
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidIdentifier):
		fail(c, http.StatusBadRequest, ErrCodeInvalidIdentifier, "invalid identifier")
	case errors.Is(err, services.ErrMissingParameter):
		fail(c, http.StatusBadRequest, ErrCodeMissingParameter, err.Error())
	case errors.Is(err, services.ErrBadQueryParameter):
		// The detail can carry the collection size; it stays in the logs.
		middleware.LoggerFrom(c).Debug().Err(err).Msg("rejected pagination")
		msg := "start and end must be non-negative integers"
		if errors.Is(err, utils.ErrRangeOutOfBounds) {
			msg = "pagination range out of bounds"
		}
		fail(c, http.StatusUnprocessableEntity, ErrCodeBadQueryParameter, msg)
	case errors.Is(err, services.ErrQuestionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "question not found")
	case errors.Is(err, services.ErrAnswerNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "answer not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	default:
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled error")
		fail(c, http.StatusNotFound, ErrCodeNotFound, "not found")
	}
}
