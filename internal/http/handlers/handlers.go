package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/http/middleware"
)

//
// Service contracts (context-aware)
//

// QuestionService lists and mutates questions.
type QuestionService interface {
	// List returns all questions for empty params, else the start/end window.
	List(ctx context.Context, params map[string]string) ([]domain.Question, error)
	// Add upserts a question.
	Add(ctx context.Context, q domain.Question) error
	// Update replaces the question stored under rawID.
	Update(ctx context.Context, rawID string, q domain.Question) error
	// Delete removes the question stored under rawID.
	Delete(ctx context.Context, rawID string) error
}

// AnswerService creates answers from submitted form fields.
type AnswerService interface {
	Add(ctx context.Context, form map[string]string) (*domain.Answer, error)
}

// AuthService checks credentials and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// IdempotencyRecorder stores the outcome of a completed POST so that a retry
// with the same Idempotency-Key is answered from the ledger.
type IdempotencyRecorder interface {
	Record(ctx context.Context, subject, scope, key, resourceID string, status int) error
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. A nil recorder disables recording;
// replays detected upstream are still honored.
type Handlers struct {
	qSvc    QuestionService
	aSvc    AnswerService
	authSvc AuthService
	idem    IdempotencyRecorder
}

// New constructs a Handlers bound to the given services.
func New(q QuestionService, a AnswerService, auth AuthService, idem IdempotencyRecorder) *Handlers {
	return &Handlers{qSvc: q, aSvc: a, authSvc: auth, idem: idem}
}

// remember records a completed POST under its Idempotency-Key, if any.
// Ledger failures are logged; the client already has its answer.
func (h *Handlers) remember(c *gin.Context, resourceID string, status int) {
	key, has := middleware.GetIdempotencyKey(c)
	if !has || h.idem == nil {
		return
	}
	err := h.idem.Record(c.Request.Context(), middleware.SubjectFrom(c), middleware.IdempotencyScope(c), key, resourceID, status)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record failed")
	}
}
