package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/content"
)

// =============================================================================
// Calendar Cache
// =============================================================================

// GetHebrewDate implements calendar.Cache. A miss returns (nil, nil).
func (s *StateStore) GetHebrewDate(ctx context.Context, day calendar.Day) (*calendar.HebrewDate, error) {
	query := `
		SELECT hebrew_year, hebrew_month, hebrew_day, events
		FROM calendar_cache
		WHERE day = ?
	`

	var (
		year, month, d int
		eventsJSON     string
	)
	err := s.db.QueryRowContext(ctx, query, day.String()).Scan(&year, &month, &d, &eventsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query calendar cache: %w", err)
	}

	var events []string
	if err := json.Unmarshal([]byte(eventsJSON), &events); err != nil {
		return nil, fmt.Errorf("decode cached events for %s: %w", day, err)
	}

	date := calendar.NewHebrewDate(year, calendar.HebrewMonth(month), d, events)
	return &date, nil
}

// PutHebrewDate implements calendar.Cache.
func (s *StateStore) PutHebrewDate(ctx context.Context, day calendar.Day, date calendar.HebrewDate) error {
	events, err := json.Marshal(date.Events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}

	query := `
		INSERT INTO calendar_cache (day, hebrew_year, hebrew_month, hebrew_day, events, fetched_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(day) DO UPDATE SET
			hebrew_year = excluded.hebrew_year,
			hebrew_month = excluded.hebrew_month,
			hebrew_day = excluded.hebrew_day,
			events = excluded.events,
			fetched_at = excluded.fetched_at
	`
	_, err = s.db.ExecContext(ctx, query, day.String(), date.Year, int(date.Month), date.Day, string(events))
	if err != nil {
		return fmt.Errorf("cache hebrew date %s: %w", day, err)
	}
	return nil
}

// =============================================================================
// Content Cache
// =============================================================================

// GetChapters implements content.Cache.
func (s *StateStore) GetChapters(ctx context.Context, start, end int) ([]content.Chapter, error) {
	query := `
		SELECT chapter, verses
		FROM content_cache
		WHERE chapter BETWEEN ? AND ?
		ORDER BY chapter
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query content cache: %w", err)
	}
	defer rows.Close()

	var chapters []content.Chapter
	for rows.Next() {
		var (
			ch         content.Chapter
			versesJSON string
		)
		if err := rows.Scan(&ch.Number, &versesJSON); err != nil {
			return nil, fmt.Errorf("scan content cache row: %w", err)
		}
		if err := json.Unmarshal([]byte(versesJSON), &ch.Verses); err != nil {
			return nil, fmt.Errorf("decode cached chapter %d: %w", ch.Number, err)
		}
		ch.Source = content.SourceCache
		chapters = append(chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content cache rows: %w", err)
	}

	return chapters, nil
}

// PutChapters implements content.Cache. All chapters are written in one
// transaction.
func (s *StateStore) PutChapters(ctx context.Context, chapters []content.Chapter) error {
	query := `
		INSERT INTO content_cache (chapter, verses, source, fetched_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(chapter) DO UPDATE SET
			verses = excluded.verses,
			source = excluded.source,
			fetched_at = excluded.fetched_at
	`

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for _, ch := range chapters {
			verses, err := json.Marshal(ch.Verses)
			if err != nil {
				return fmt.Errorf("encode chapter %d: %w", ch.Number, err)
			}
			if _, err := tx.ExecContext(ctx, query, ch.Number, string(verses), ch.Source); err != nil {
				return fmt.Errorf("cache chapter %d: %w", ch.Number, err)
			}
		}
		return nil
	})
}

// =============================================================================
// Stats
// =============================================================================

// CacheStats summarizes what is available offline.
type CacheStats struct {
	SchemaVersion    int        `json:"schema_version"`
	CalendarDays     int        `json:"calendar_days"`
	Chapters         int        `json:"chapters"`
	LedgerUpdatedAt  *time.Time `json:"ledger_updated_at,omitempty"`
	LastCalendarSync *time.Time `json:"last_calendar_sync,omitempty"`
	LastContentSync  *time.Time `json:"last_content_sync,omitempty"`
}

// Stats returns counts and freshness of the persisted data.
func (db *DB) Stats(ctx context.Context) (*CacheStats, error) {
	query := `
		SELECT
			(SELECT COALESCE(MAX(version), 0) FROM schema_migrations),
			(SELECT COUNT(*) FROM calendar_cache),
			(SELECT COUNT(*) FROM content_cache),
			(SELECT updated_at FROM app_state WHERE key = ?),
			(SELECT MAX(fetched_at) FROM calendar_cache),
			(SELECT MAX(fetched_at) FROM content_cache)
	`

	var (
		stats                           CacheStats
		ledgerAt, calendarAt, contentAt sql.NullString
	)
	err := db.QueryRowContext(ctx, query, LedgerKey).Scan(
		&stats.SchemaVersion,
		&stats.CalendarDays,
		&stats.Chapters,
		&ledgerAt,
		&calendarAt,
		&contentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("query cache stats: %w", err)
	}

	stats.LedgerUpdatedAt = parseTimestamp(ledgerAt)
	stats.LastCalendarSync = parseTimestamp(calendarAt)
	stats.LastContentSync = parseTimestamp(contentAt)
	return &stats, nil
}

// parseTimestamp parses a SQLite TEXT timestamp, returning nil when the
// value is absent or in an unknown format.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}
