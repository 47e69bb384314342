package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

func q(id, title string, tags ...string) domain.Question {
	return domain.Question{ID: domain.QuestionID(id), Title: title, Content: "content " + id, Tags: tags}
}

func TestStore_InsertThenGet_ExactlyOnce(t *testing.T) {
	s := New()
	s.InsertQuestion(q("b", "B"))
	s.InsertQuestion(q("c", "C"))
	s.InsertQuestion(q("a", "A"))

	got := s.Questions()
	if len(got) != 3 {
		t.Fatalf("len = %d; want 3", len(got))
	}
	seen := 0
	for _, g := range got {
		if g.ID == "a" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("question a present %d times; want 1", seen)
	}
	// snapshot ordering is by id
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestStore_InsertQuestion_Upserts(t *testing.T) {
	s := New()
	s.InsertQuestion(q("1", "first"))
	s.InsertQuestion(q("1", "second"))

	got := s.Questions()
	if len(got) != 1 || got[0].Title != "second" {
		t.Fatalf("upsert did not replace: %+v", got)
	}
	if s.QuestionCount() != 1 {
		t.Fatalf("QuestionCount = %d; want 1", s.QuestionCount())
	}
}

func TestStore_UpdateQuestion(t *testing.T) {
	s := New()

	// missing id → ErrNotFound, store untouched
	if err := s.UpdateQuestion("nope", q("nope", "x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
	if s.QuestionCount() != 0 {
		t.Fatalf("update on missing id inserted a value")
	}

	s.InsertQuestion(q("1", "old", "x", "y"))
	repl := domain.Question{ID: "1", Title: "new"}
	if err := s.UpdateQuestion("1", repl); err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	got := s.Questions()
	// full replace: no field merge, old tags and content are gone
	if !reflect.DeepEqual(got, []domain.Question{repl}) {
		t.Fatalf("got %+v; want %+v", got, repl)
	}
}

func TestStore_DeleteQuestion(t *testing.T) {
	s := New()
	if err := s.DeleteQuestion("1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
	s.InsertQuestion(q("1", "t"))
	s.InsertQuestion(q("2", "t"))
	if err := s.DeleteQuestion("1"); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	for _, g := range s.Questions() {
		if g.ID == "1" {
			t.Fatalf("deleted question still returned")
		}
	}
	if err := s.DeleteQuestion("1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v; want ErrNotFound", err)
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := New()
	in := q("1", "t", "a", "b")
	s.InsertQuestion(in)

	// caller mutating its own value after insert must not leak in
	in.Tags[0] = "mutated"

	snap := s.Questions()
	if snap[0].Tags[0] != "a" {
		t.Fatalf("stored tags aliased caller slice: %v", snap[0].Tags)
	}

	// mutating a snapshot must not leak back either
	snap[0].Tags[1] = "mutated"
	snap[0].Title = "mutated"
	again := s.Questions()
	if again[0].Tags[1] != "b" || again[0].Title != "t" {
		t.Fatalf("snapshot aliased stored value: %+v", again[0])
	}
}

func TestStore_Answers(t *testing.T) {
	s := New()
	s.InsertAnswer(domain.Answer{ID: "a2", Content: "x", QuestionID: "1"})
	s.InsertAnswer(domain.Answer{ID: "a1", Content: "y", QuestionID: "1"})
	s.InsertAnswer(domain.Answer{ID: "a1", Content: "z", QuestionID: "2"})

	got := s.Answers()
	want := []domain.Answer{
		{ID: "a1", Content: "z", QuestionID: "2"},
		{ID: "a2", Content: "x", QuestionID: "1"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v; want %+v", got, want)
	}
	if s.AnswerCount() != 2 {
		t.Fatalf("AnswerCount = %d", s.AnswerCount())
	}
}

func TestStore_ConcurrentInserts_AllPresent(t *testing.T) {
	s := New()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.InsertQuestion(q(fmt.Sprintf("q%03d", i), "t"))
			_ = s.Questions()
		}(i)
	}
	wg.Wait()

	if got := s.QuestionCount(); got != n {
		t.Fatalf("QuestionCount = %d; want %d", got, n)
	}
}

func TestStore_ConcurrentUpdateAndDelete_ResolveCleanly(t *testing.T) {
	for round := 0; round < 100; round++ {
		s := New()
		s.InsertQuestion(q("1", "orig", "t"))

		var (
			wg        sync.WaitGroup
			updateErr error
			deleteErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			updateErr = s.UpdateQuestion("1", q("1", "updated", "u"))
		}()
		go func() {
			defer wg.Done()
			deleteErr = s.DeleteQuestion("1")
		}()
		wg.Wait()

		if deleteErr != nil {
			t.Fatalf("delete must always find the entry, got %v", deleteErr)
		}
		if updateErr != nil && !errors.Is(updateErr, ErrNotFound) {
			t.Fatalf("unexpected update error: %v", updateErr)
		}
		// whichever order won, delete ran, so nothing is left and nothing is torn
		if s.QuestionCount() != 0 {
			t.Fatalf("round %d: expected empty store, got %+v", round, s.Questions())
		}
	}
}

func TestStore_QuestionsAndAnswersAreIndependent(t *testing.T) {
	s := New()
	// hold the question write lock; answer operations must still proceed
	s.qmu.Lock()
	done := make(chan struct{})
	go func() {
		s.InsertAnswer(domain.Answer{ID: "a", QuestionID: "1"})
		_ = s.Answers()
		close(done)
	}()
	<-done
	s.qmu.Unlock()

	if s.AnswerCount() != 1 {
		t.Fatalf("AnswerCount = %d; want 1", s.AnswerCount())
	}
}

func TestCollector(t *testing.T) {
	s := New()
	s.InsertQuestion(q("1", "t"))
	s.InsertQuestion(q("2", "t"))
	s.InsertAnswer(domain.Answer{ID: "a", QuestionID: "1"})

	c := NewCollector(s)
	if n := testutil.CollectAndCount(c); n != 2 {
		t.Fatalf("CollectAndCount = %d; want 2", n)
	}

	want := `
# HELP qa_answers_stored Number of answers currently held in memory.
# TYPE qa_answers_stored gauge
qa_answers_stored 1
# HELP qa_questions_stored Number of questions currently held in memory.
# TYPE qa_questions_stored gauge
qa_questions_stored 2
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(want)); err != nil {
		t.Fatalf("CollectAndCompare: %v", err)
	}
}
