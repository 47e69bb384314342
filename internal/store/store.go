// Package store holds the process-wide, in-memory state of the Q&A service.
//
// The Store keeps two independent maps, questions and answers, each guarded
// by its own sync.RWMutex. Every method takes exactly one lock exactly once:
//   - readers (Questions, Answers, counts) share the read lock
//   - writers (insert/update/delete) hold the write lock for one operation
//
// No method ever holds both locks, so operations on questions never block
// operations on answers and no lock ordering issue can arise. There is no
// cross-map atomicity; deleting a question does not touch its answers.
//
// Values are copied in and out (including tag slices) so callers can never
// observe or cause a mutation of stored entries after the lock is released.
package store

import (
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

// ErrNotFound is returned by UpdateQuestion and DeleteQuestion when the id
// is absent.
var ErrNotFound = errors.New("not found")

// Store is safe for concurrent use. The zero value is not usable; call New.
type Store struct {
	qmu       sync.RWMutex
	questions map[domain.QuestionID]domain.Question

	amu     sync.RWMutex
	answers map[domain.AnswerID]domain.Answer
}

// New returns an empty Store. It is meant to be constructed once at startup
// and shared by every handler for the life of the process.
func New() *Store {
	return &Store{
		questions: make(map[domain.QuestionID]domain.Question),
		answers:   make(map[domain.AnswerID]domain.Answer),
	}
}

// Questions returns a snapshot of all questions ordered by id.
func (s *Store) Questions() []domain.Question {
	s.qmu.RLock()
	out := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		out = append(out, q.Clone())
	}
	s.qmu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Question) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out
}

// InsertQuestion upserts q under q.ID.
func (s *Store) InsertQuestion(q domain.Question) {
	q = q.Clone()
	s.qmu.Lock()
	s.questions[q.ID] = q
	s.qmu.Unlock()
}

// UpdateQuestion replaces the question stored under id with q. It never
// inserts: an absent id yields ErrNotFound and leaves the store unchanged.
func (s *Store) UpdateQuestion(id domain.QuestionID, q domain.Question) error {
	q = q.Clone()
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return ErrNotFound
	}
	s.questions[id] = q
	return nil
}

// DeleteQuestion removes the question stored under id, or returns ErrNotFound.
func (s *Store) DeleteQuestion(id domain.QuestionID) error {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

// QuestionCount returns the number of stored questions.
func (s *Store) QuestionCount() int {
	s.qmu.RLock()
	defer s.qmu.RUnlock()
	return len(s.questions)
}

// InsertAnswer upserts a under a.ID.
func (s *Store) InsertAnswer(a domain.Answer) {
	s.amu.Lock()
	s.answers[a.ID] = a
	s.amu.Unlock()
}

// Answers returns a snapshot of all answers ordered by id.
func (s *Store) Answers() []domain.Answer {
	s.amu.RLock()
	out := make([]domain.Answer, 0, len(s.answers))
	for _, a := range s.answers {
		out = append(out, a)
	}
	s.amu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Answer) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out
}

// AnswerCount returns the number of stored answers.
func (s *Store) AnswerCount() int {
	s.amu.RLock()
	defer s.amu.RUnlock()
	return len(s.answers)
}
