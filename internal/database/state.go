package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

// LedgerKey is the app_state key holding the ledger.
const LedgerKey = "tehillim_daily_user_stats"

// GetState returns the value stored under key, or ErrNotFound.
func (db *DB) GetState(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get state %q: %w", key, err)
	}
	return []byte(value), nil
}

// PutState stores value under key, replacing any previous value.
func (db *DB) PutState(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("put state %q: %w", key, err)
	}
	return nil
}

// StateStore persists the ledger in app_state and serves as the calendar
// and content cache.
type StateStore struct {
	db     *DB
	logger *slog.Logger
}

// NewStateStore creates a StateStore over db.
func NewStateStore(db *DB, logger *slog.Logger) *StateStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateStore{db: db, logger: logger}
}

// Load implements tracker.Store. Malformed state is merged over the zero
// ledger and logged rather than returned.
func (s *StateStore) Load(ctx context.Context) (*tracker.Ledger, error) {
	data, err := s.db.GetState(ctx, LedgerKey)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ledger, err := tracker.DecodeLedger(data)
	if err != nil {
		s.logger.Warn("persisted ledger is malformed, using recovered fields", slog.Any("error", err))
	}
	return &ledger, nil
}

// Save implements tracker.Store.
func (s *StateStore) Save(ctx context.Context, ledger tracker.Ledger) error {
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	return s.db.PutState(ctx, LedgerKey, data)
}
