package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedOracle blocks MonthLength for one month until released.
type gatedOracle struct {
	Local
	slow    HebrewMonth
	release chan struct{}
	entered chan struct{}
}

func (o *gatedOracle) MonthLength(ctx context.Context, year int, month HebrewMonth) (int, error) {
	if month == o.slow {
		close(o.entered)
		select {
		case <-o.release:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return o.Local.MonthLength(ctx, year, month)
}

func TestNavigator_LoadsMonth(t *testing.T) {
	nav := NewNavigator(Local{}, 5787, Cheshvan)

	view, err := nav.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5787, view.Year)
	assert.Equal(t, "חשון", view.MonthName)
	assert.Equal(t, DaysInMonth(5787, Cheshvan), view.Length)
	assert.Equal(t, time.Monday, view.StartWeekday) // 1 Cheshvan 5787 = 2026-10-12
}

func TestNavigator_WrapsYears(t *testing.T) {
	nav := NewNavigator(Local{}, 5785, Elul)

	view, err := nav.Navigate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5786, view.Year)
	assert.Equal(t, Tishrei, view.Month)

	view, err = nav.Navigate(context.Background(), -1)
	require.NoError(t, err)
	assert.Equal(t, 5785, view.Year)
	assert.Equal(t, Elul, view.Month)
	assert.Equal(t, 29, view.Length)
}

func TestNavigator_DiscardsSupersededLoad(t *testing.T) {
	oracle := &gatedOracle{slow: Kislev, release: make(chan struct{}), entered: make(chan struct{})}
	nav := NewNavigator(oracle, 5785, Cheshvan)

	done := make(chan MonthView)
	go func() {
		view, _ := nav.Navigate(context.Background(), 1) // to Kislev, blocks
		done <- view
	}()
	<-oracle.entered

	// The user moves on to Tevet before Kislev finishes loading.
	newer, err := nav.Navigate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Tevet, newer.Month)

	close(oracle.release)
	stale := <-done

	assert.Equal(t, Tevet, stale.Month, "late result must not replace the newer view")
	assert.Equal(t, Tevet, nav.View().Month)
	assert.Equal(t, 29, nav.View().Length)
}
