// Package domain defines the core models of the Q&A service: questions,
// answers, their identifier types, and the idempotency ledger record.
// These types are shared by the store, service, and HTTP layers.
package domain

import (
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidIdentifier is returned when an identifier is constructed from an
// empty string.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// QuestionID identifies a Question. Any non-empty string is valid; uniqueness
// is a property of the store's keys, not of the identifier.
type QuestionID string

// AnswerID identifies an Answer.
type AnswerID string

// ParseQuestionID wraps s verbatim, failing only when s is empty.
func ParseQuestionID(s string) (QuestionID, error) {
	if s == "" {
		return "", ErrInvalidIdentifier
	}
	return QuestionID(s), nil
}

// ParseAnswerID wraps s verbatim, failing only when s is empty.
func ParseAnswerID(s string) (AnswerID, error) {
	if s == "" {
		return "", ErrInvalidIdentifier
	}
	return AnswerID(s), nil
}

// String returns the underlying identifier.
func (id QuestionID) String() string { return string(id) }

// String returns the underlying identifier.
func (id AnswerID) String() string { return string(id) }

// UnmarshalJSON rejects an explicit empty id. An absent "id" key leaves the
// zero value in place so callers can decide (PUT takes the id from the path).
func (id *QuestionID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseQuestionID(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Question is a user-submitted question.
//
// Fields:
//   - ID: caller-chosen identifier, also the store key.
//   - Title / Content: free text.
//   - Tags: optional ordered set; see NormalizeTags.
type Question struct {
	ID      QuestionID `json:"id"               example:"1"`
	Title   string     `json:"title"            example:"How do I slice a map?"`
	Content string     `json:"content"          example:"Maps are unordered, so..."`
	Tags    []string   `json:"tags,omitempty"   example:"go,maps"`
}

// NewQuestion builds a Question with a validated id and normalized tags.
func NewQuestion(id, title, content string, tags []string) (Question, error) {
	qid, err := ParseQuestionID(id)
	if err != nil {
		return Question{}, err
	}
	return Question{ID: qid, Title: title, Content: content, Tags: NormalizeTags(tags)}, nil
}

// Clone returns a copy of q that shares no memory with it.
func (q Question) Clone() Question {
	if q.Tags != nil {
		q.Tags = append([]string(nil), q.Tags...)
	}
	return q
}

// Answer is a reply to a question. Answers are create-only.
type Answer struct {
	ID         AnswerID   `json:"id"          example:"0b8f6c1e-7a53-4a39-8c39-0a0f5e1f4d44"`
	Content    string     `json:"content"     example:"Collect the keys and sort them."`
	QuestionID QuestionID `json:"question_id" example:"1"`
}

// NormalizeTags turns tags into an ordered set: values are trimmed and
// NFC-normalized, blanks are dropped, and only the first occurrence of each
// tag is kept. A nil or fully blank input yields nil.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = norm.NFC.String(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
