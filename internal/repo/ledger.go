package repo

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Ledger binds the idempotency functions to a database and a record TTL.
// Its Lookup method satisfies middleware.IdempotencyLookup and Record is
// what handlers call after a successful POST.
type Ledger struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewLedger returns a Ledger; a non-positive ttl falls back to 24h.
func NewLedger(db *gorm.DB, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Ledger{DB: db, TTL: ttl}
}

// Lookup reports the resource id of a live record for (subject, scope, key).
// A missing or expired record is not an error.
func (l *Ledger) Lookup(ctx context.Context, subject, scope, key string, now time.Time) (string, bool, error) {
	rec, err := GetIdempotency(ctx, l.DB, subject, scope, key, now)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.ResourceID, true, nil
}

// Record stores the outcome of a completed request. Losing a race against a
// concurrent request with the same key is not an error: the first record
// stands.
func (l *Ledger) Record(ctx context.Context, subject, scope, key, resourceID string, status int) error {
	_, err := CreateIdempotency(ctx, l.DB, subject, scope, key, resourceID, status, l.TTL)
	if errors.Is(err, ErrDuplicate) {
		return nil
	}
	return err
}

// RunJanitor purges expired records every interval until ctx is done.
func (l *Ledger) RunJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := PurgeExpiredIdempotency(ctx, l.DB, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("idempotency purge")
			}
		}
	}
}
