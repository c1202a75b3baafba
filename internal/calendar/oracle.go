package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrOracleUnavailable is returned by remote oracles when the calendar
// service cannot be reached or answers with something unusable.
var ErrOracleUnavailable = errors.New("calendar oracle unavailable")

// DefaultOracleTimeout bounds every remote oracle call.
const DefaultOracleTimeout = 2 * time.Second

// Oracle converts between civil days and Hebrew dates.
type Oracle interface {
	// DateToHebrew resolves a civil day to its Hebrew date and observances.
	DateToHebrew(ctx context.Context, day Day) (HebrewDate, error)

	// HebrewToDate resolves a Hebrew date to the civil day it falls on.
	HebrewToDate(ctx context.Context, year int, month HebrewMonth, day int) (Day, error)

	// MonthLength returns 29 or 30.
	MonthLength(ctx context.Context, year int, month HebrewMonth) (int, error)
}

// Cache stores resolved Hebrew dates so later lookups work offline.
type Cache interface {
	GetHebrewDate(ctx context.Context, day Day) (*HebrewDate, error)
	PutHebrewDate(ctx context.Context, day Day, date HebrewDate) error
}

// =============================================================================
// Local oracle
// =============================================================================

// Local answers every query from the arithmetic Hebrew calendar. It never
// fails and needs no network.
type Local struct{}

// DateToHebrew implements Oracle.
func (Local) DateToHebrew(_ context.Context, day Day) (HebrewDate, error) {
	year, month, d := ToHebrew(day)
	return NewHebrewDate(year, month, d, Observances(day)), nil
}

// HebrewToDate implements Oracle.
func (Local) HebrewToDate(_ context.Context, year int, month HebrewMonth, day int) (Day, error) {
	return FromHebrew(year, month, day), nil
}

// MonthLength implements Oracle.
func (Local) MonthLength(_ context.Context, year int, month HebrewMonth) (int, error) {
	return DaysInMonth(year, month), nil
}

// =============================================================================
// Resilient oracle
// =============================================================================

// Resilient wraps a remote oracle with a per-call timeout, an optional
// cache and the local fallback. Its methods never return an oracle error;
// only context cancellation by the caller is reported.
type Resilient struct {
	remote  Oracle
	cache   Cache
	local   Local
	timeout time.Duration
	logger  *slog.Logger
}

// NewResilient creates a Resilient oracle. remote and cache may be nil,
// in which case only the local calendar is used.
func NewResilient(remote Oracle, cache Cache, timeout time.Duration, logger *slog.Logger) *Resilient {
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resilient{
		remote:  remote,
		cache:   cache,
		timeout: timeout,
		logger:  logger,
	}
}

// DateToHebrew implements Oracle.
func (r *Resilient) DateToHebrew(ctx context.Context, day Day) (HebrewDate, error) {
	if err := ctx.Err(); err != nil {
		return HebrewDate{}, err
	}

	if r.cache != nil {
		cached, err := r.cache.GetHebrewDate(ctx, day)
		if err != nil {
			r.logger.Debug("calendar cache read failed", slog.String("day", day.String()), slog.Any("error", err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	if r.remote != nil {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		date, err := r.remote.DateToHebrew(callCtx, day)
		cancel()
		if err == nil {
			if r.cache != nil {
				if err := r.cache.PutHebrewDate(ctx, day, date); err != nil {
					r.logger.Debug("calendar cache write failed", slog.String("day", day.String()), slog.Any("error", err))
				}
			}
			return date, nil
		}
		if ctx.Err() != nil {
			return HebrewDate{}, ctx.Err()
		}
		r.logger.Debug("calendar oracle fallback",
			slog.String("op", "date_to_hebrew"),
			slog.String("day", day.String()),
			slog.Any("error", err),
		)
	}

	return r.local.DateToHebrew(ctx, day)
}

// HebrewToDate implements Oracle.
func (r *Resilient) HebrewToDate(ctx context.Context, year int, month HebrewMonth, day int) (Day, error) {
	if err := ctx.Err(); err != nil {
		return Day{}, err
	}
	if r.remote != nil {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		d, err := r.remote.HebrewToDate(callCtx, year, month, day)
		cancel()
		if err == nil {
			return d, nil
		}
		if ctx.Err() != nil {
			return Day{}, ctx.Err()
		}
		r.logger.Debug("calendar oracle fallback",
			slog.String("op", "hebrew_to_date"),
			slog.String("date", fmt.Sprintf("%d-%d-%d", year, month, day)),
			slog.Any("error", err),
		)
	}
	return r.local.HebrewToDate(ctx, year, month, day)
}

// MonthLength implements Oracle.
func (r *Resilient) MonthLength(ctx context.Context, year int, month HebrewMonth) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.remote != nil {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		n, err := r.remote.MonthLength(callCtx, year, month)
		cancel()
		if err == nil {
			return n, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		r.logger.Debug("calendar oracle fallback",
			slog.String("op", "month_length"),
			slog.Int("year", year),
			slog.Int("month", int(month)),
			slog.Any("error", err),
		)
	}
	return r.local.MonthLength(ctx, year, month)
}
