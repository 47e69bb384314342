package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/go-qa-backend/internal/config"
	"github.com/tbourn/go-qa-backend/internal/observability"
)

func TestRun_LedgerFailureStillShutsDownTelemetry(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "missing", "ledger.db"))

	var calls int
	var hadDeadline bool
	orig := setupOTel
	setupOTel = func(context.Context, config.OTELConfig, string) (observability.ShutdownFunc, error) {
		return func(ctx context.Context) error {
			calls++
			_, hadDeadline = ctx.Deadline()
			return nil
		}, nil
	}
	t.Cleanup(func() { setupOTel = orig })

	err := run()
	if err == nil || !strings.Contains(err.Error(), "open ledger") {
		t.Fatalf("expected ledger error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected telemetry shutdown once, got %d", calls)
	}
	if !hadDeadline {
		t.Fatalf("telemetry shutdown should run with a deadline")
	}
}

func TestRun_OTelSetupFailure(t *testing.T) {
	t.Setenv("GIN_MODE", "test")

	orig := setupOTel
	setupOTel = func(context.Context, config.OTELConfig, string) (observability.ShutdownFunc, error) {
		return nil, errors.New("collector unreachable")
	}
	t.Cleanup(func() { setupOTel = orig })

	if err := run(); err == nil || !strings.Contains(err.Error(), "setup otel") {
		t.Fatalf("expected otel error, got %v", err)
	}
}

func TestShutdownTelemetry_LogsError(t *testing.T) {
	start := time.Now()
	shutdownTelemetry(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("expected a deadline")
		}
		return errors.New("flush failed")
	})
	if time.Since(start) > shutdownTimeout {
		t.Fatalf("shutdownTelemetry blocked too long")
	}
}
