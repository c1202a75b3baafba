package tracker

import (
	"io"
	"log/slog"
	"testing"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(s string) calendar.Day {
	d, err := calendar.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dayPtr(s string) *calendar.Day {
	d := day(s)
	return &d
}

// ledgerWith returns a ledger whose last completion is last with the given
// streak.
func ledgerWith(t *testing.T, last string, streak int) Ledger {
	t.Helper()
	l := NewLedger()
	l.CurrentStreak = streak
	l.MaxStreak = streak
	l.LastCompletionDate = dayPtr(last)
	return l
}
