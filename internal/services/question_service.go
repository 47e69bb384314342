// Package services – QuestionService
//
// This file implements listing (with optional pagination), adding, updating,
// and deleting questions on top of the in-memory store. Each method performs
// at most one store operation; pagination is validated before the store is
// touched.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/store"
	"github.com/tbourn/go-qa-backend/internal/utils"
)

var tracer = otel.Tracer("github.com/tbourn/go-qa-backend/internal/services")

// QuestionStore is the subset of *store.Store used by QuestionService.
type QuestionStore interface {
	Questions() []domain.Question
	InsertQuestion(q domain.Question)
	UpdateQuestion(id domain.QuestionID, q domain.Question) error
	DeleteQuestion(id domain.QuestionID) error
}

// QuestionService provides question CRUD over a QuestionStore.
type QuestionService struct {
	// Store holds the questions map.
	Store QuestionStore
	// ClampPagination clamps out-of-range windows instead of rejecting them.
	ClampPagination bool
}

// NewQuestionService constructs a QuestionService with strict pagination.
func NewQuestionService(s QuestionStore) *QuestionService {
	return &QuestionService{Store: s}
}

// List returns every question when params is empty. Otherwise params must
// carry a valid "start"/"end" pair and the [start, end) window of the
// id-ordered snapshot is returned.
func (s *QuestionService) List(ctx context.Context, params map[string]string) ([]domain.Question, error) {
	_, span := tracer.Start(ctx, "QuestionService.List",
		trace.WithAttributes(attribute.Bool("qa.pagination", len(params) > 0)))
	defer span.End()

	if len(params) == 0 {
		return s.Store.Questions(), nil
	}

	r, err := utils.ExtractPagination(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadQueryParameter, err)
	}

	all := s.Store.Questions()
	start, end, err := r.Bounds(len(all), s.ClampPagination)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadQueryParameter, err)
	}
	span.SetAttributes(attribute.Int("qa.start", start), attribute.Int("qa.end", end))
	return all[start:end], nil
}

// Add upserts q. The id must be non-empty; tags are normalized.
func (s *QuestionService) Add(ctx context.Context, q domain.Question) error {
	_, span := tracer.Start(ctx, "QuestionService.Add",
		trace.WithAttributes(attribute.String("qa.question_id", string(q.ID))))
	defer span.End()

	if _, err := domain.ParseQuestionID(string(q.ID)); err != nil {
		return err
	}
	q.Tags = domain.NormalizeTags(q.Tags)
	s.Store.InsertQuestion(q)
	return nil
}

// Update replaces the question stored under rawID with q. The stored value
// always carries rawID as its id, whatever the body said.
func (s *QuestionService) Update(ctx context.Context, rawID string, q domain.Question) error {
	_, span := tracer.Start(ctx, "QuestionService.Update",
		trace.WithAttributes(attribute.String("qa.question_id", rawID)))
	defer span.End()

	id, err := domain.ParseQuestionID(rawID)
	if err != nil {
		return err
	}
	q.ID = id
	q.Tags = domain.NormalizeTags(q.Tags)
	if err := s.Store.UpdateQuestion(id, q); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// Delete removes the question stored under rawID.
func (s *QuestionService) Delete(ctx context.Context, rawID string) error {
	_, span := tracer.Start(ctx, "QuestionService.Delete",
		trace.WithAttributes(attribute.String("qa.question_id", rawID)))
	defer span.End()

	id, err := domain.ParseQuestionID(rawID)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteQuestion(id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrQuestionNotFound
	}
	return err
}
