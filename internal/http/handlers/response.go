// Package handlers provides the HTTP handlers of the Q&A API.
//
// This file holds the response helpers shared by every endpoint. Failures
// always use the ErrorResponse envelope; successful writes answer with a
// short plain-text confirmation, reads with JSON.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "message": "question not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"question not found"`
}

// fail aborts the request with the error envelope. Server errors are logged
// with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	reqID := c.Writer.Header().Get("X-Request-ID")
	if reqID == "" {
		reqID = middleware.RequestIDFrom(c)
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{RequestID: reqID, Code: code, Message: msg})
}

// Fail is the exported variant of fail, used by the router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a JSON success body.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// confirm answers 200 with a plain-text confirmation such as "Question added".
func confirm(c *gin.Context, msg string) {
	c.String(http.StatusOK, msg)
}

// replay answers a request already completed under the same Idempotency-Key.
func replay(c *gin.Context, msg string) {
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	confirm(c, msg)
}
