package tracker

import (
	"errors"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
)

// ErrNotMissed is returned by CatchUp when the requested day is not a
// missed day of the current month.
var ErrNotMissed = errors.New("day is not a missed day of the current month")

// DayStatus is the state of one day in the month grid.
type DayStatus string

const (
	StatusDone    DayStatus = "done"
	StatusMissed  DayStatus = "missed"
	StatusToday   DayStatus = "today"
	StatusPending DayStatus = "pending"
)

// MonthDay is one cell of the month grid.
type MonthDay struct {
	Day    int            `json:"day"`
	Label  string         `json:"label"`
	Status DayStatus      `json:"status"`
	Range  schedule.Range `json:"range"`
}

// MonthStatus computes the grid for view. Only the month containing
// hebrewToday has done/missed days; any other month is all pending.
// A past day is done when every chapter of its monthly reading is in the
// current cycle's coverage.
func MonthStatus(l Ledger, view calendar.MonthView, hebrewToday calendar.HebrewDate, completedToday bool) []MonthDay {
	current := view.Year == hebrewToday.Year && view.Month == hebrewToday.Month

	days := make([]MonthDay, 0, view.Length)
	for d := 1; d <= view.Length; d++ {
		r := schedule.MonthlyForDay(d)
		status := StatusPending
		if current {
			switch {
			case d < hebrewToday.Day && l.CompletedUnits.HasAll(r):
				status = StatusDone
			case d < hebrewToday.Day:
				status = StatusMissed
			case d == hebrewToday.Day && completedToday:
				status = StatusDone
			case d == hebrewToday.Day:
				status = StatusToday
			}
		}
		days = append(days, MonthDay{
			Day:    d,
			Label:  calendar.HebrewNumeral(d),
			Status: status,
			Range:  r,
		})
	}
	return days
}

// CatchUp returns the scheme for re-reading the monthly assignment of a
// missed day of the current month.
func CatchUp(l Ledger, hebrewToday calendar.HebrewDate, ordinal int) (schedule.Scheme, error) {
	if ordinal < 1 || ordinal >= hebrewToday.Day {
		return schedule.Scheme{}, ErrNotMissed
	}
	if l.CompletedUnits.HasAll(schedule.MonthlyForDay(ordinal)) {
		return schedule.Scheme{}, ErrNotMissed
	}
	return schedule.CatchUpScheme(ordinal), nil
}
