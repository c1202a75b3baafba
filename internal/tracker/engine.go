package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
)

var (
	ErrInvalidMode   = errors.New("invalid completion mode")
	ErrInvalidRange  = errors.New("invalid chapter range")
	ErrInvalidScheme = errors.New("scheme cannot be used as the daily cycle")
)

// startupScanTimeout bounds the protected-gap scan run by Start.
const startupScanTimeout = 10 * time.Second

// Mode says what kind of reading a completion records.
type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeBook    Mode = "book"
	ModeSingle  Mode = "single"
	ModeCatchUp Mode = "catchup"
)

// IsValid checks if a mode is known.
func (m Mode) IsValid() bool {
	switch m {
	case ModeDaily, ModeBook, ModeSingle, ModeCatchUp:
		return true
	}
	return false
}

// Completion is one finished reading.
type Completion struct {
	Mode  Mode
	Range schedule.Range
	Today calendar.Day
}

// Request describes a reading before its range is resolved.
type Request struct {
	Mode    Mode `json:"mode"`
	Book    int  `json:"book,omitempty"`
	Start   int  `json:"start,omitempty"`
	End     int  `json:"end,omitempty"`
	Ordinal int  `json:"ordinal,omitempty"`
}

// TodayView is what the reader sees for the current day.
type TodayView struct {
	Day            calendar.Day        `json:"day"`
	Weekday        string              `json:"weekday"`
	Hebrew         calendar.HebrewDate `json:"hebrew"`
	Scheme         schedule.Kind       `json:"scheme"`
	Range          schedule.Range      `json:"range"`
	CompletedToday bool                `json:"completed_today"`
	Exempt         bool                `json:"exempt"`
	Gap            *ProtectedGap       `json:"protected_gap,omitempty"`
}

// Engine owns the ledger. Every mutation runs under one mutex, including
// the oracle lookups and the write to the store, so transitions never
// interleave.
type Engine struct {
	store  Store
	oracle calendar.Oracle
	logger *slog.Logger

	mu     sync.Mutex
	ledger Ledger
	gap    *ProtectedGap
}

// NewEngine creates an engine with an empty ledger. Call Start to load the
// persisted state.
func NewEngine(store Store, oracle calendar.Oracle, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		oracle: oracle,
		logger: logger,
		ledger: NewLedger(),
	}
}

// Start loads the persisted ledger and scans for a protected gap. Store
// and oracle failures are logged and leave the engine usable; only
// cancellation of ctx is returned.
func (e *Engine) Start(ctx context.Context, today calendar.Day) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loaded, err := e.store.Load(ctx)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Warn("failed to load ledger, starting empty", slog.Any("error", err))
	case loaded != nil:
		e.ledger = loaded.Clone()
		e.ledger.normalize()
	}

	scanCtx, cancel := context.WithTimeout(ctx, startupScanTimeout)
	defer cancel()

	gap, err := e.detectGap(scanCtx, today)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.logger.Warn("protected gap scan failed", slog.Any("error", err))
		return nil
	}
	e.gap = gap
	if gap != nil {
		e.logger.Info("protected gap found",
			slog.Int("ordinal", gap.Ordinal),
			slog.String("day", gap.Day.String()),
			slog.String("range", gap.Range.String()),
		)
	}
	return nil
}

func (e *Engine) detectGap(ctx context.Context, today calendar.Day) (*ProtectedGap, error) {
	if e.ledger.LastCompletionDate == nil {
		return nil, nil
	}
	hebrewToday, err := e.oracle.DateToHebrew(ctx, today)
	if err != nil {
		return nil, err
	}
	return DetectProtectedGap(ctx, e.ledger, today, hebrewToday, e.oracle)
}

// Snapshot returns a copy of the ledger.
func (e *Engine) Snapshot() Ledger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Clone()
}

// ProtectedGap returns the current catch-up marker, or nil.
func (e *Engine) ProtectedGap() *ProtectedGap {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gap == nil {
		return nil
	}
	g := *e.gap
	return &g
}

// CompletedToday reports whether the daily reading was done on today.
func (e *Engine) CompletedToday(today calendar.Day) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.CompletedOn(today)
}

// Today resolves the active daily reading for today.
func (e *Engine) Today(ctx context.Context, today calendar.Day) (TodayView, error) {
	hd, err := e.oracle.DateToHebrew(ctx, today)
	if err != nil {
		return TodayView{}, err
	}

	l := e.Snapshot()
	scheme := schedule.Scheme{Kind: l.ActiveScheme}
	return TodayView{
		Day:            today,
		Weekday:        calendar.DayName(today.Weekday()),
		Hebrew:         hd,
		Scheme:         l.ActiveScheme,
		Range:          schedule.Resolve(hd, today, scheme),
		CompletedToday: l.CompletedOn(today),
		Exempt:         calendar.IsExempt(today, hd.Events),
		Gap:            e.ProtectedGap(),
	}, nil
}

// Complete resolves req to a range for today and records it.
func (e *Engine) Complete(ctx context.Context, today calendar.Day, req Request) (Ledger, error) {
	if !req.Mode.IsValid() {
		return Ledger{}, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}

	hd, err := e.oracle.DateToHebrew(ctx, today)
	if err != nil {
		return Ledger{}, err
	}

	var scheme schedule.Scheme
	switch req.Mode {
	case ModeDaily:
		scheme = schedule.Scheme{Kind: e.Snapshot().ActiveScheme}
	case ModeBook:
		if _, ok := schedule.BookByID(req.Book); !ok {
			return Ledger{}, fmt.Errorf("%w: unknown book %d", ErrInvalidRange, req.Book)
		}
		scheme = schedule.BookScheme(req.Book)
	case ModeSingle:
		scheme = schedule.SingleScheme(req.Start, req.End)
	case ModeCatchUp:
		if req.Ordinal == 0 {
			if gap := e.ProtectedGap(); gap != nil {
				req.Ordinal = gap.Ordinal
			}
		}
		scheme, err = CatchUp(e.Snapshot(), hd, req.Ordinal)
		if err != nil {
			return Ledger{}, err
		}
	}

	return e.CompleteRange(ctx, Completion{
		Mode:  req.Mode,
		Range: schedule.Resolve(hd, today, scheme),
		Today: today,
	})
}

// CompleteRange records a finished reading and persists the ledger.
//
// A failed write is logged and the in-memory ledger stays authoritative;
// the next mutation writes the full state again. Besides invalid input,
// only cancellation of ctx is returned, in which case nothing changed.
func (e *Engine) CompleteRange(ctx context.Context, c Completion) (Ledger, error) {
	if !c.Mode.IsValid() {
		return Ledger{}, fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if c.Range.Start < 1 || c.Range.End < c.Range.Start || c.Range.End > schedule.TotalUnits {
		return Ledger{}, fmt.Errorf("%w: %s", ErrInvalidRange, c.Range)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := Apply(ctx, e.ledger, c, OracleExempt(e.oracle))
	if err != nil {
		return Ledger{}, err
	}

	e.ledger = next
	if c.Mode == ModeCatchUp {
		e.gap = nil
	}
	e.persist(ctx)

	e.logger.Debug("reading completed",
		slog.String("mode", string(c.Mode)),
		slog.String("range", c.Range.String()),
		slog.Int("streak", next.CurrentStreak),
	)
	return next.Clone(), nil
}

// SetScheme switches the active daily cycle.
func (e *Engine) SetScheme(ctx context.Context, kind schedule.Kind) (Ledger, error) {
	if !kind.IsCycle() {
		return Ledger{}, fmt.Errorf("%w: %q", ErrInvalidScheme, kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.ledger.ActiveScheme = kind
	e.persist(ctx)
	return e.ledger.Clone(), nil
}

// persist writes the ledger. The caller holds e.mu. The write is not
// cancelled with ctx: once the state changed in memory it should reach
// the store.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(context.WithoutCancel(ctx), e.ledger.Clone()); err != nil {
		e.logger.Warn("failed to persist ledger, keeping in memory", slog.Any("error", err))
	}
}

// ExemptFunc reports whether a missed day is forgiven.
type ExemptFunc func(ctx context.Context, day calendar.Day) (bool, error)

// OracleExempt classifies days by the observances the oracle reports.
func OracleExempt(oracle calendar.Oracle) ExemptFunc {
	return func(ctx context.Context, day calendar.Day) (bool, error) {
		if day.Weekday() == calendar.RestDay {
			return true, nil
		}
		hd, err := oracle.DateToHebrew(ctx, day)
		if err != nil {
			return false, err
		}
		return calendar.IsExempt(day, hd.Events), nil
	}
}

// Apply returns the ledger that results from recording c on l. l is not
// modified.
func Apply(ctx context.Context, l Ledger, c Completion, exempt ExemptFunc) (Ledger, error) {
	if err := ctx.Err(); err != nil {
		return Ledger{}, err
	}

	next := l.Clone()
	alreadyToday := l.CompletedOn(c.Today)

	if c.Mode == ModeDaily && !alreadyToday {
		streak, err := nextStreak(ctx, l, c.Today, exempt)
		if err != nil {
			return Ledger{}, err
		}
		next.CurrentStreak = streak
		next.MaxStreak = max(next.MaxStreak, streak)
		if !slices.Contains(next.CompletionLog, c.Today) {
			next.CompletionLog = append(next.CompletionLog, c.Today)
		}
		next.DaysCompleted++
	}

	for u := c.Range.Start; u <= c.Range.End; u++ {
		next.CompletedUnits.Add(u)
	}

	// Size check, not coverage: members above 150 count toward rollover and
	// survive it into the next cycle.
	if len(next.CompletedUnits) >= schedule.TotalUnits {
		next.CyclesCompleted++
		for u := range next.CompletedUnits {
			if u <= schedule.TotalUnits {
				delete(next.CompletedUnits, u)
			}
		}
	}

	next.TotalUnitsCompleted += c.Range.Len()

	if c.Mode == ModeDaily {
		today := c.Today
		next.LastCompletionDate = &today
	}
	return next, nil
}

// nextStreak computes the streak after a daily completion on today.
func nextStreak(ctx context.Context, l Ledger, today calendar.Day, exempt ExemptFunc) (int, error) {
	if l.LastCompletionDate == nil {
		return 1, nil
	}

	gap := today.DaysSince(*l.LastCompletionDate)
	if gap <= 1 {
		return l.CurrentStreak + 1, nil
	}

	protected := 0
	for _, day := range l.LastCompletionDate.Between(today) {
		ok, err := exempt(ctx, day)
		if err != nil {
			return 0, err
		}
		if !ok {
			// One unprotected day is enough to break the streak.
			break
		}
		protected++
	}

	if gap-protected <= 1 {
		return l.CurrentStreak + 1, nil
	}
	return 1, nil
}
