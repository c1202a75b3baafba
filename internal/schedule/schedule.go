// Package schedule resolves a date to its assigned Tehillim reading under
// the supported cycle schemes.
package schedule

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
)

// Kind names a cycle scheme.
type Kind string

const (
	KindWeekly  Kind = "week"
	KindMonthly Kind = "month"
	KindSingle  Kind = "single"
	KindBook    Kind = "book"
	KindCatchUp Kind = "catchup"
)

// ValidKinds returns every scheme kind.
func ValidKinds() []Kind {
	return []Kind{KindWeekly, KindMonthly, KindSingle, KindBook, KindCatchUp}
}

// IsValid checks if a kind is known.
func (k Kind) IsValid() bool {
	for _, valid := range ValidKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// IsCycle reports whether k is a recurring daily cycle, i.e. a scheme that
// can be selected as the active daily reading.
func (k Kind) IsCycle() bool {
	return k == KindWeekly || k == KindMonthly
}

// Range is a contiguous span of chapters. Ordinal is the 1-based position
// in the scheme's table, or 0 when the range is ad hoc.
type Range struct {
	Ordinal int    `json:"ordinal,omitempty"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Note    string `json:"note,omitempty"`
}

// Len returns the number of chapters in r.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

// Units returns every chapter number in r.
func (r Range) Units() []int {
	if r.End < r.Start {
		return nil
	}
	units := make([]int, 0, r.Len())
	for u := r.Start; u <= r.End; u++ {
		units = append(units, u)
	}
	return units
}

// String formats r as "start-end", or a single number.
func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Scheme selects how a date maps to a range. Weekly and Monthly need no
// parameters; Single and CatchUp carry an explicit span, Book a book id.
type Scheme struct {
	Kind    Kind `json:"kind"`
	Start   int  `json:"start,omitempty"`
	End     int  `json:"end,omitempty"`
	Book    int  `json:"book,omitempty"`
	Ordinal int  `json:"ordinal,omitempty"`
}

// WeeklyScheme returns the weekly cycle scheme.
func WeeklyScheme() Scheme { return Scheme{Kind: KindWeekly} }

// MonthlyScheme returns the 30-day cycle scheme.
func MonthlyScheme() Scheme { return Scheme{Kind: KindMonthly} }

// SingleScheme returns an ad hoc scheme for chapters start..end.
func SingleScheme(start, end int) Scheme {
	return Scheme{Kind: KindSingle, Start: start, End: end}
}

// BookScheme returns the scheme for one of the five books.
func BookScheme(id int) Scheme {
	return Scheme{Kind: KindBook, Book: id}
}

// CatchUpScheme returns a scheme that re-reads the monthly assignment of a
// missed day.
func CatchUpScheme(ordinal int) Scheme {
	r := MonthlyForDay(ordinal)
	return Scheme{Kind: KindCatchUp, Start: r.Start, End: r.End, Ordinal: r.Ordinal}
}

// Resolve returns the reading assigned to a date under scheme.
//
// The weekly cycle is keyed by the civil weekday of day; the monthly cycle
// by the Hebrew day of month. Ad hoc schemes return their explicit span.
// An unknown kind resolves like the monthly cycle.
func Resolve(date calendar.HebrewDate, day calendar.Day, scheme Scheme) Range {
	switch scheme.Kind {
	case KindWeekly:
		return entry(Weekly, int(day.Weekday()))
	case KindSingle:
		return Range{Start: scheme.Start, End: scheme.End}
	case KindCatchUp:
		r := Range{Ordinal: scheme.Ordinal, Start: scheme.Start, End: scheme.End}
		if scheme.Ordinal > 0 {
			r.Note = MonthlyForDay(scheme.Ordinal).Note
		}
		return r
	case KindBook:
		book, ok := BookByID(scheme.Book)
		if !ok {
			book = Books[0]
		}
		return book.Range
	default:
		return MonthlyForDay(date.Day)
	}
}

// ErrInvalidTable is returned by Validate when a table does not tile the
// whole book.
var ErrInvalidTable = errors.New("invalid schedule table")

// Validate checks that table covers chapters 1..150 with no gaps and no
// overlaps. Consecutive identical ranges count once, which allows a chapter
// split across several days.
func Validate(table []Range) error {
	if len(table) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidTable)
	}

	sorted := make([]Range, len(table))
	copy(sorted, table)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	next := 1
	var prev *Range
	for i := range sorted {
		r := sorted[i]
		if r.End < r.Start {
			return fmt.Errorf("%w: range %s is reversed", ErrInvalidTable, r)
		}
		if prev != nil && r.Start == prev.Start && r.End == prev.End {
			continue
		}
		if r.Start != next {
			return fmt.Errorf("%w: expected chapter %d, got range %s", ErrInvalidTable, next, r)
		}
		next = r.End + 1
		prev = &sorted[i]
	}
	if next != TotalUnits+1 {
		return fmt.Errorf("%w: coverage ends at %d", ErrInvalidTable, next-1)
	}
	return nil
}
