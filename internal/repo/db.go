// Package repo implements the persistence layer for the idempotency ledger,
// backed by GORM. Questions and answers live in the in-memory store; the
// ledger is the only GORM-managed table.
//
// The default DSN is an in-memory shared-cache SQLite database, so ledger
// records share the process lifetime of the data they protect. Pointing
// DB_PATH at a file keeps replays working across restarts.
package repo

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-qa-backend/internal/domain"
)

// MemoryDSN is the default in-memory ledger database.
const MemoryDSN = "file:idempotency?mode=memory&cache=shared"

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, and
// instruments it with OpenTelemetry.
func OpenSQLite(path string) (*gorm.DB, error) {
	inMemory := strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:")
	// Without a shared cache every pooled connection opens its own empty
	// database, so the pool must stay at one connection.
	private := inMemory && !strings.Contains(path, "cache=shared")

	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if !inMemory {
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutQueryVariables())); err != nil {
		return nil, err
	}

	// PRAGMAs
	if !inMemory {
		db.Exec("PRAGMA journal_mode=WAL;")
		db.Exec("PRAGMA synchronous=NORMAL;")
	}
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		if private {
			sqlDB.SetMaxOpenConns(1)
			sqlDB.SetMaxIdleConns(1)
		} else {
			sqlDB.SetMaxOpenConns(10)
			sqlDB.SetMaxIdleConns(10)
		}
		// An in-memory database vanishes with its last connection.
		if inMemory {
			sqlDB.SetConnMaxIdleTime(0)
			sqlDB.SetConnMaxLifetime(0)
		} else {
			sqlDB.SetConnMaxIdleTime(5 * time.Minute)
			sqlDB.SetConnMaxLifetime(30 * time.Minute)
		}
	}

	return db, nil
}

// AutoMigrate creates or updates the ledger schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Idempotency{})
}
