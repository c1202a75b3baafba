// Package tracker implements the reading ledger: streaks, cumulative
// counters, per-cycle chapter coverage and the protected catch-up day.
package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
)

// ErrMalformedState is returned (wrapped) when persisted state could only
// be partially recovered.
var ErrMalformedState = errors.New("malformed persisted state")

// UnitSet is a set of chapter numbers. It serializes as a sorted array.
type UnitSet map[int]struct{}

// Add inserts u and reports whether it was new.
func (s UnitSet) Add(u int) bool {
	if _, ok := s[u]; ok {
		return false
	}
	s[u] = struct{}{}
	return true
}

// Has reports whether u is in the set.
func (s UnitSet) Has(u int) bool {
	_, ok := s[u]
	return ok
}

// HasAll reports whether every chapter of r is in the set.
func (s UnitSet) HasAll(r schedule.Range) bool {
	for u := r.Start; u <= r.End; u++ {
		if !s.Has(u) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s UnitSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Ints(out)
	return out
}

// MarshalJSON implements json.Marshaler.
func (s UnitSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON implements json.Unmarshaler. Non-positive members are
// dropped.
func (s *UnitSet) UnmarshalJSON(data []byte) error {
	var units []int
	if err := json.Unmarshal(data, &units); err != nil {
		return err
	}
	set := make(UnitSet, len(units))
	for _, u := range units {
		if u > 0 {
			set.Add(u)
		}
	}
	*s = set
	return nil
}

// Ledger is the persisted progress state of the single reader.
//
// The JSON names are the browser app's stats keys; exported state from
// there imports as is.
type Ledger struct {
	CurrentStreak       int            `json:"currentStreak"`
	MaxStreak           int            `json:"maxStreak"`
	TotalUnitsCompleted int            `json:"totalChaptersRead"`
	DaysCompleted       int            `json:"daysCompleted"`
	CyclesCompleted     int            `json:"booksCompleted"`
	LastCompletionDate  *calendar.Day  `json:"lastReadDate"`
	ActiveScheme        schedule.Kind  `json:"cycleType"`
	CompletedUnits      UnitSet        `json:"readChaptersStatus"`
	CompletionLog       []calendar.Day `json:"readingHistory"`
}

// NewLedger returns the zero state used on first run.
func NewLedger() Ledger {
	return Ledger{
		ActiveScheme:   schedule.KindMonthly,
		CompletedUnits: UnitSet{},
		CompletionLog:  []calendar.Day{},
	}
}

// Clone returns a deep copy of l.
func (l Ledger) Clone() Ledger {
	c := l
	if l.LastCompletionDate != nil {
		d := *l.LastCompletionDate
		c.LastCompletionDate = &d
	}
	c.CompletedUnits = make(UnitSet, len(l.CompletedUnits))
	for u := range l.CompletedUnits {
		c.CompletedUnits[u] = struct{}{}
	}
	c.CompletionLog = slices.Clone(l.CompletionLog)
	if c.CompletionLog == nil {
		c.CompletionLog = []calendar.Day{}
	}
	return c
}

// CompletedOn reports whether the daily reading was completed on day.
func (l Ledger) CompletedOn(day calendar.Day) bool {
	return l.LastCompletionDate != nil && *l.LastCompletionDate == day
}

// normalize repairs values a partial decode may have left inconsistent.
func (l *Ledger) normalize() {
	if l.CompletedUnits == nil {
		l.CompletedUnits = UnitSet{}
	}
	if l.CompletionLog == nil {
		l.CompletionLog = []calendar.Day{}
	}
	if !l.ActiveScheme.IsCycle() {
		l.ActiveScheme = schedule.KindMonthly
	}
	l.CurrentStreak = max(l.CurrentStreak, 0)
	l.MaxStreak = max(l.MaxStreak, l.CurrentStreak)
	l.TotalUnitsCompleted = max(l.TotalUnitsCompleted, 0)
	l.DaysCompleted = max(l.DaysCompleted, 0)
	l.CyclesCompleted = max(l.CyclesCompleted, 0)
}

// DecodeLedger decodes persisted state field by field on top of the zero
// state. Missing fields keep their defaults and fields that fail to decode
// are skipped. The returned ledger is always usable; a non-nil error wraps
// ErrMalformedState and lists what was dropped.
func DecodeLedger(data []byte) (Ledger, error) {
	l := NewLedger()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return l, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	var logEntries []string
	errs := []error{
		decodeField(raw, "currentStreak", &l.CurrentStreak),
		decodeField(raw, "maxStreak", &l.MaxStreak),
		decodeField(raw, "totalChaptersRead", &l.TotalUnitsCompleted),
		decodeField(raw, "daysCompleted", &l.DaysCompleted),
		decodeField(raw, "booksCompleted", &l.CyclesCompleted),
		decodeField(raw, "lastReadDate", &l.LastCompletionDate),
		decodeField(raw, "cycleType", &l.ActiveScheme),
		decodeField(raw, "readChaptersStatus", &l.CompletedUnits),
		decodeField(raw, "readingHistory", &logEntries),
	}

	for _, entry := range logEntries {
		var d calendar.Day
		if err := d.UnmarshalText([]byte(entry)); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", "readingHistory", err))
			continue
		}
		if !slices.Contains(l.CompletionLog, d) {
			l.CompletionLog = append(l.CompletionLog, d)
		}
	}

	l.normalize()

	if err := errors.Join(errs...); err != nil {
		return l, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	return l, nil
}

// decodeField decodes raw[key] into dst. dst is only written when the whole
// value decodes; null and absent keys leave it untouched.
func decodeField[T any](raw map[string]json.RawMessage, key string, dst *T) error {
	msg, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return nil
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	*dst = v
	return nil
}
