package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// migrationsSQL holds the schema, applied in version order.
var migrationsSQL = map[int]string{
	1: migrationV1AppState,
	2: migrationV2CalendarCache,
	3: migrationV3ContentCache,
}

// migrationV1AppState creates the key/value table that holds the ledger.
//
// The ledger is stored as one JSON document under a fixed key, the same
// shape the web app kept in local storage, so state can move between the
// two without conversion.
const migrationV1AppState = `
-- Migration 001: application state

CREATE TABLE IF NOT EXISTS app_state (
    key TEXT PRIMARY KEY,

    -- JSON document
    value TEXT NOT NULL,

    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// migrationV2CalendarCache stores Hebrew dates resolved by the remote
// converter, keyed by civil day.
const migrationV2CalendarCache = `
-- Migration 002: calendar cache

CREATE TABLE IF NOT EXISTS calendar_cache (
    day TEXT PRIMARY KEY,                  -- YYYY-MM-DD

    hebrew_year INTEGER NOT NULL,
    hebrew_month INTEGER NOT NULL CHECK (hebrew_month BETWEEN 1 AND 13),
    hebrew_day INTEGER NOT NULL CHECK (hebrew_day BETWEEN 1 AND 30),

    -- Observances as a JSON array of Hebrew strings
    events TEXT NOT NULL DEFAULT '[]',

    fetched_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Month lookups for the calendar grid
CREATE INDEX IF NOT EXISTS idx_calendar_cache_month
    ON calendar_cache(hebrew_year, hebrew_month);
`

// migrationV3ContentCache stores chapter text fetched from the text source.
const migrationV3ContentCache = `
-- Migration 003: content cache

CREATE TABLE IF NOT EXISTS content_cache (
    chapter INTEGER PRIMARY KEY CHECK (chapter BETWEEN 1 AND 150),

    -- Verses as a JSON array of strings
    verses TEXT NOT NULL,

    source TEXT NOT NULL DEFAULT '',
    fetched_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Migrate applies every pending migration in one transaction and returns
// how many ran. Migrations are forward only.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	applied := 0
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)
		`); err != nil {
			return fmt.Errorf("create schema_migrations table: %w", err)
		}

		var current int
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		for version := current + 1; version <= len(migrationsSQL); version++ {
			stmt, ok := migrationsSQL[version]
			if !ok {
				return fmt.Errorf("migration %d not found", version)
			}
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("execute migration %d: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}
			db.logger.Info("applied migration", slog.Int("version", version))
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return applied, nil
}

// SchemaVersion returns the highest applied migration, 0 before Migrate.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'",
	).Scan(&exists)
	if err != nil || exists == 0 {
		return 0, err
	}

	var version int
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
