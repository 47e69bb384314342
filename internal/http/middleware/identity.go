package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	// AnonymousSubject stands in for callers without a valid bearer token.
	AnonymousSubject = "anonymous"
)

// SubjectVerifier resolves a bearer token to its subject.
type SubjectVerifier interface {
	Subject(token string) (string, error)
}

// Identity reads an optional "Authorization: Bearer <token>" header and, when
// the token verifies, stores its subject under "userID". Missing, malformed,
// expired or forged tokens leave the request anonymous; nothing is rejected
// here since no route requires authentication.
func Identity(v SubjectVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.Next()
			return
		}
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if ok {
			if sub, err := v.Subject(token); err == nil && sub != "" {
				c.Set(userIDKey, sub)
			}
		}
		c.Next()
	}
}

// SubjectFrom returns the verified subject, or AnonymousSubject.
func SubjectFrom(c *gin.Context) string {
	if s := c.GetString(userIDKey); s != "" {
		return s
	}
	return AnonymousSubject
}

func bearerToken(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	t := strings.TrimSpace(h[len(prefix):])
	return t, t != ""
}
