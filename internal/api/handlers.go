package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/content"
	"github.com/zapponejosh/tehillim-tracker/internal/database"
	"github.com/zapponejosh/tehillim-tracker/internal/logger"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	engine  *tracker.Engine
	oracle  calendar.Oracle
	content content.Provider
	db      *database.DB
	today   func() calendar.Day
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance. today reports the reader's
// current civil day; db may be nil, in which case /health only reports
// the process as up.
func NewHandlers(engine *tracker.Engine, oracle calendar.Oracle, provider content.Provider, db *database.DB, today func() calendar.Day, log *slog.Logger) *Handlers {
	return &Handlers{
		engine:  engine,
		oracle:  oracle,
		content: provider,
		db:      db,
		today:   today,
		logger:  log,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db == nil {
		WriteSuccess(w, map[string]any{"status": "healthy"})
		return
	}

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	stats, err := h.db.Stats(ctx)
	if err != nil {
		logger.Warn(ctx, "cache stats unavailable", slog.Any("error", err))
	}

	WriteSuccess(w, map[string]any{
		"status": "healthy",
		"cache":  stats,
	})
}

// GetToday handles GET /api/v1/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.engine.Today(ctx, h.today())
	if err != nil {
		logger.Error(ctx, "failed to resolve today", err)
		WriteInternalError(w, "Failed to resolve today's reading")
		return
	}

	WriteSuccess(w, view)
}

// Complete handles POST /api/v1/complete
//
// Body: {"mode": "daily|book|single|catchup", "book": 1, "start": 1, "end": 9, "ordinal": 4}
func (h *Handlers) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tracker.Request
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if req.Mode == "" {
		req.Mode = tracker.ModeDaily
	}

	ledger, err := h.engine.Complete(ctx, h.today(), req)
	switch {
	case errors.Is(err, tracker.ErrInvalidMode), errors.Is(err, tracker.ErrInvalidRange):
		WriteBadRequest(w, err.Error())
		return
	case errors.Is(err, tracker.ErrNotMissed):
		WriteConflict(w, err.Error())
		return
	case err != nil:
		logger.Error(ctx, "failed to record completion", err, slog.String("mode", string(req.Mode)))
		WriteInternalError(w, "Failed to record completion")
		return
	}

	WriteSuccess(w, ledger)
}

// GetLedger handles GET /api/v1/ledger
func (h *Handlers) GetLedger(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"ledger":          h.engine.Snapshot(),
		"completed_today": h.engine.CompletedToday(h.today()),
		"protected_gap":   h.engine.ProtectedGap(),
	})
}

// SetScheme handles PUT /api/v1/scheme
//
// Body: {"scheme": "week|month"}
func (h *Handlers) SetScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Scheme schedule.Kind `json:"scheme"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	ledger, err := h.engine.SetScheme(ctx, req.Scheme)
	if errors.Is(err, tracker.ErrInvalidScheme) {
		WriteBadRequest(w, err.Error())
		return
	}
	if err != nil {
		logger.Error(ctx, "failed to set scheme", err)
		WriteInternalError(w, "Failed to set scheme")
		return
	}

	WriteSuccess(w, ledger)
}

// GetSchedule handles GET /api/v1/schedule/{scheme}
func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	switch kind := schedule.Kind(chi.URLParam(r, "scheme")); kind {
	case schedule.KindWeekly:
		WriteSuccess(w, map[string]any{"scheme": kind, "ranges": schedule.Weekly})
	case schedule.KindMonthly:
		WriteSuccess(w, map[string]any{"scheme": kind, "ranges": schedule.Monthly})
	case schedule.KindBook:
		WriteSuccess(w, map[string]any{"scheme": kind, "books": schedule.Books})
	default:
		WriteNotFound(w, fmt.Sprintf("Unknown scheme %q. Use week, month or book", kind))
	}
}

// GetCalendar handles GET /api/v1/calendar?year=5785&month=8&offset=-1
//
// Without year/month the month containing today is shown. offset moves
// from there by whole months.
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	offset, err := optionalInt(q.Get("offset"), 0)
	if err != nil {
		WriteBadRequest(w, "offset must be an integer")
		return
	}

	today := h.today()
	hebrewToday, err := h.oracle.DateToHebrew(ctx, today)
	if err != nil {
		logger.Error(ctx, "failed to resolve hebrew date", err)
		WriteInternalError(w, "Failed to resolve today's date")
		return
	}

	year, month := hebrewToday.Year, hebrewToday.Month
	if q.Get("year") != "" || q.Get("month") != "" {
		y, errY := strconv.Atoi(q.Get("year"))
		m, errM := strconv.Atoi(q.Get("month"))
		if errY != nil || errM != nil || m < int(calendar.Nisan) || m > int(calendar.AdarII) {
			WriteBadRequest(w, "year and month must both be given; month is 1 (Nisan) to 13 (Adar II)")
			return
		}
		if calendar.HebrewMonth(m) == calendar.AdarII && !calendar.IsLeapYear(y) {
			WriteBadRequest(w, fmt.Sprintf("Year %d has no Adar II", y))
			return
		}
		year, month = y, calendar.HebrewMonth(m)
	}

	nav := calendar.NewNavigator(h.oracle, year, month)
	view, err := nav.Navigate(ctx, offset)
	if err != nil {
		logger.Error(ctx, "failed to load month", err, slog.Int("year", year), slog.Int("month", int(month)))
		WriteInternalError(w, "Failed to load month")
		return
	}

	days := tracker.MonthStatus(h.engine.Snapshot(), view, hebrewToday, h.engine.CompletedToday(today))

	WriteSuccess(w, map[string]any{
		"month": view,
		"days":  days,
	})
}

// GetContent handles GET /api/v1/content?start=1&end=9
//
// Without start/end, today's reading is returned.
func (h *Handlers) GetContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	start, end, err := h.contentRange(ctx, q.Get("start"), q.Get("end"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	chapters, err := h.content.FetchUnits(ctx, start, end)
	if errors.Is(err, content.ErrInvalidRange) {
		WriteBadRequest(w, err.Error())
		return
	}
	if err != nil {
		logger.Error(ctx, "failed to fetch chapters", err, slog.Int("start", start), slog.Int("end", end))
		WriteInternalError(w, "Failed to fetch chapters")
		return
	}

	WriteSuccess(w, map[string]any{
		"start":    start,
		"end":      end,
		"chapters": chapters,
	})
}

func (h *Handlers) contentRange(ctx context.Context, startStr, endStr string) (int, int, error) {
	if startStr == "" && endStr == "" {
		view, err := h.engine.Today(ctx, h.today())
		if err != nil {
			return 0, 0, err
		}
		return view.Range.Start, view.Range.End, nil
	}

	start, err := strconv.Atoi(startStr)
	if err != nil {
		return 0, 0, fmt.Errorf("start must be an integer")
	}
	end, err := optionalInt(endStr, start)
	if err != nil {
		return 0, 0, fmt.Errorf("end must be an integer")
	}
	return start, end, nil
}

// GetHistory handles GET /api/v1/history
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	l := h.engine.Snapshot()

	WriteSuccess(w, map[string]any{
		"history":        l.CompletionLog,
		"days_completed": l.DaysCompleted,
		"current_streak": l.CurrentStreak,
		"max_streak":     l.MaxStreak,
	})
}

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	return json.NewDecoder(r.Body).Decode(v)
}

func optionalInt(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}
