// Package calendar provides civil and Hebrew calendar calculations, the
// calendar oracle used to resolve Hebrew dates and observances, and the
// special-day classifier.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned when a date string cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// dayLayout is the ISO 8601 format used for all day keys.
const dayLayout = "2006-01-02"

// Day is a civil (Gregorian) calendar day with no time-of-day and no
// timezone. It is comparable with ==.
//
// Day is deliberately separate from HebrewDate: it is only a day-granularity
// marker for streak bookkeeping.
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay returns the normalized day for the given year, month and day.
// Out-of-range values roll over the same way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the day t falls on in t's own location.
func DayOf(t time.Time) Day {
	return Day{year: t.Year(), month: t.Month(), day: t.Day()}
}

// ParseDay parses an ISO date (YYYY-MM-DD).
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DayOf(t), nil
}

// Year returns the Gregorian year.
func (d Day) Year() int { return d.year }

// Month returns the Gregorian month.
func (d Day) Month() time.Month { return d.month }

// DayOfMonth returns the 1-based day of the month.
func (d Day) DayOfMonth() int { return d.day }

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d == Day{} }

// Time returns midnight UTC of d.
func (d Day) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week, Sunday=0 through Saturday=6.
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays returns d shifted by n days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// DaysSince returns the whole number of days from other to d.
// It is negative when d is before other.
func (d Day) DaysSince(other Day) int {
	return int((d.Time().Unix() - other.Time().Unix()) / secondsPerDay)
}

// Before reports whether d is strictly before other.
func (d Day) Before(other Day) bool { return d.DaysSince(other) < 0 }

// After reports whether d is strictly after other.
func (d Day) After(other Day) bool { return d.DaysSince(other) > 0 }

// Between returns the days strictly between d and later, in order.
// It returns nil when later is not at least two days after d.
func (d Day) Between(later Day) []Day {
	n := later.DaysSince(d)
	if n < 2 {
		return nil
	}
	days := make([]Day, 0, n-1)
	for i := 1; i < n; i++ {
		days = append(days, d.AddDays(i))
	}
	return days
}

// String formats d as YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Full ISO timestamps are accepted and truncated to their date part.
func (d *Day) UnmarshalText(text []byte) error {
	s := string(text)
	if len(s) > len(dayLayout) {
		s = s[:len(dayLayout)]
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

const secondsPerDay = 24 * 60 * 60

// rdUnixEpoch is the fixed (R.D.) day number of 1970-01-01.
const rdUnixEpoch = 719163

// fixed returns the R.D. day number of d, where 0001-01-01 is day 1.
func (d Day) fixed() int {
	return int(d.Time().Unix()/secondsPerDay) + rdUnixEpoch
}

// dayFromFixed is the inverse of Day.fixed.
func dayFromFixed(rd int) Day {
	return DayOf(time.Unix(int64(rd-rdUnixEpoch)*secondsPerDay, 0).UTC())
}
