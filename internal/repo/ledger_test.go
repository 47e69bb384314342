package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

func TestLedger_RecordThenLookup(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	l := NewLedger(db, time.Hour)
	ctx := context.Background()

	if _, found, err := l.Lookup(ctx, "anonymous", "/comments", "k1", time.Now().UTC()); err != nil || found {
		t.Fatalf("expected miss before record, got found=%v err=%v", found, err)
	}
	if err := l.Record(ctx, "anonymous", "/comments", "k1", "ans-1", 200); err != nil {
		t.Fatalf("Record: %v", err)
	}
	rid, found, err := l.Lookup(ctx, "anonymous", "/comments", "k1", time.Now().UTC())
	if err != nil || !found || rid != "ans-1" {
		t.Fatalf("Lookup = (%q, %v, %v); want (ans-1, true, nil)", rid, found, err)
	}

	// Scoped by subject and route.
	if _, found, _ := l.Lookup(ctx, "alice", "/comments", "k1", time.Now().UTC()); found {
		t.Fatalf("other subject must not see the record")
	}
	if _, found, _ := l.Lookup(ctx, "anonymous", "/questions", "k1", time.Now().UTC()); found {
		t.Fatalf("other scope must not see the record")
	}
}

func TestLedger_RecordDuplicateIsNotAnError(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	l := NewLedger(db, time.Hour)
	ctx := context.Background()

	if err := l.Record(ctx, "u", "/questions", "k", "q1", 200); err != nil {
		t.Fatalf("first Record: %v", err)
	}
	if err := l.Record(ctx, "u", "/questions", "k", "q2", 200); err != nil {
		t.Fatalf("duplicate Record should be swallowed, got %v", err)
	}
	rid, _, _ := l.Lookup(ctx, "u", "/questions", "k", time.Now().UTC())
	if rid != "q1" {
		t.Fatalf("first record must stand, got %q", rid)
	}
}

func TestLedger_ExpiredLookupMisses(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	l := NewLedger(db, time.Minute)
	ctx := context.Background()

	if err := l.Record(ctx, "u", "/comments", "k", "a1", 200); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, found, _ := l.Lookup(ctx, "u", "/comments", "k", time.Now().UTC().Add(2*time.Minute)); found {
		t.Fatalf("expired record must not be found")
	}
}

func TestNewLedger_DefaultTTL(t *testing.T) {
	if l := NewLedger(nil, 0); l.TTL != 24*time.Hour {
		t.Fatalf("TTL = %v; want 24h", l.TTL)
	}
}

func TestLedger_RunJanitor(t *testing.T) {
	db := newIdemDB(t, &domain.Idempotency{})
	l := NewLedger(db, time.Nanosecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := l.Record(ctx, "u", "/comments", "k", "a1", 200); err != nil {
		t.Fatalf("Record: %v", err)
	}

	done := make(chan struct{})
	go func() { l.RunJanitor(ctx, 10*time.Millisecond); close(done) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		var n int64
		db.Model(&domain.Idempotency{}).Count(&n)
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("janitor did not purge expired record")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done
}
