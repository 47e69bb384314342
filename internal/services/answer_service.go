// Package services – AnswerService
//
// Answers are create-only. Every answer receives a fresh UUIDv4 so that
// successive answers never overwrite one another.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

// AnswerStore is the subset of *store.Store used by AnswerService.
type AnswerStore interface {
	InsertAnswer(a domain.Answer)
}

// AnswerService creates answers.
type AnswerService struct {
	// Store holds the answers map.
	Store AnswerStore
	// NewID generates answer ids; defaults to uuid.NewString.
	NewID func() string
}

// NewAnswerService constructs an AnswerService that assigns UUIDv4 ids.
func NewAnswerService(s AnswerStore) *AnswerService {
	return &AnswerService{Store: s, NewID: uuid.NewString}
}

// Add creates an answer from form values. Both "content" and "questionId"
// must be present; the question id must be non-empty. The question is not
// required to exist.
func (s *AnswerService) Add(ctx context.Context, form map[string]string) (*domain.Answer, error) {
	_, span := tracer.Start(ctx, "AnswerService.Add")
	defer span.End()

	content, ok := form["content"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingParameter, "content")
	}
	rawQID, ok := form["questionId"]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingParameter, "questionId")
	}
	qid, err := domain.ParseQuestionID(rawQID)
	if err != nil {
		return nil, err
	}

	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	id, err := domain.ParseAnswerID(newID())
	if err != nil {
		return nil, err
	}

	a := domain.Answer{ID: id, Content: content, QuestionID: qid}
	span.SetAttributes(
		attribute.String("qa.answer_id", string(a.ID)),
		attribute.String("qa.question_id", string(a.QuestionID)),
	)
	s.Store.InsertAnswer(a)
	return &a, nil
}
