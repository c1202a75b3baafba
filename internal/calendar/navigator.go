package calendar

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// MonthView describes one Hebrew month as shown in a month grid.
type MonthView struct {
	Year         int          `json:"year"`
	Month        HebrewMonth  `json:"month"`
	MonthName    string       `json:"month_name"`
	YearLabel    string       `json:"year_label"`
	Length       int          `json:"length"`
	StartWeekday time.Weekday `json:"start_weekday"`
}

// Navigator holds the month currently being viewed and loads its length and
// first weekday through the oracle.
//
// Every navigation bumps a generation counter. A load that finishes after a
// newer navigation has started is discarded, so a slow oracle response for
// a month the user already left never overwrites the current view.
type Navigator struct {
	oracle Oracle

	mu   sync.Mutex
	view MonthView
	gen  uint64
}

// NewNavigator creates a navigator positioned at year/month. The view is
// not loaded until Load or Navigate is called.
func NewNavigator(oracle Oracle, year int, month HebrewMonth) *Navigator {
	return &Navigator{
		oracle: oracle,
		view:   placeholderView(year, month),
	}
}

// View returns the current view.
func (n *Navigator) View() MonthView {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Load (re)loads the current month.
func (n *Navigator) Load(ctx context.Context) (MonthView, error) {
	return n.Navigate(ctx, 0)
}

// Navigate moves delta months (negative for backwards) and loads the
// target month. If another navigation supersedes this one before the
// oracle answers, the returned view is the newer one and this result is
// dropped.
func (n *Navigator) Navigate(ctx context.Context, delta int) (MonthView, error) {
	n.mu.Lock()
	year, month := AddMonths(n.view.Year, n.view.Month, delta)
	n.gen++
	gen := n.gen
	n.view = placeholderView(year, month)
	n.mu.Unlock()

	loaded, err := n.load(ctx, year, month)
	if err != nil {
		return n.View(), err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return n.view, nil
	}
	n.view = loaded
	return n.view, nil
}

func (n *Navigator) load(ctx context.Context, year int, month HebrewMonth) (MonthView, error) {
	view := placeholderView(year, month)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		length, err := n.oracle.MonthLength(gctx, year, month)
		if err != nil {
			return err
		}
		view.Length = length
		return nil
	})
	g.Go(func() error {
		first, err := n.oracle.HebrewToDate(gctx, year, month, 1)
		if err != nil {
			return err
		}
		view.StartWeekday = first.Weekday()
		return nil
	})
	if err := g.Wait(); err != nil {
		return MonthView{}, err
	}
	return view, nil
}

// placeholderView is the view shown while a month is loading.
func placeholderView(year int, month HebrewMonth) MonthView {
	return MonthView{
		Year:         year,
		Month:        month,
		MonthName:    MonthName(year, month),
		YearLabel:    FormatHebrewYear(year),
		Length:       30,
		StartWeekday: time.Sunday,
	}
}
