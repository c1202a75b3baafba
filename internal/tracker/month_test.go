package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
)

func cheshvan(length int) calendar.MonthView {
	return calendar.MonthView{Year: 5785, Month: calendar.Cheshvan, Length: length}
}

func TestMonthStatus_CurrentMonth(t *testing.T) {
	l := NewLedger()
	for u := 1; u <= 22; u++ { // monthly days 1-3
		l.CompletedUnits.Add(u)
	}
	today := calendar.HebrewDate{Year: 5785, Month: calendar.Cheshvan, Day: 10}

	days := MonthStatus(l, cheshvan(30), today, false)
	require.Len(t, days, 30)

	for _, d := range days {
		switch {
		case d.Day <= 3:
			assert.Equal(t, StatusDone, d.Status, d.Day)
		case d.Day < 10:
			assert.Equal(t, StatusMissed, d.Status, d.Day)
		case d.Day == 10:
			assert.Equal(t, StatusToday, d.Status)
		default:
			assert.Equal(t, StatusPending, d.Status, d.Day)
		}
	}
	assert.Equal(t, "י", days[9].Label)
	assert.Equal(t, schedule.MonthlyForDay(10), days[9].Range)

	days = MonthStatus(l, cheshvan(30), today, true)
	assert.Equal(t, StatusDone, days[9].Status)
}

func TestMonthStatus_OtherMonthIsPending(t *testing.T) {
	l := NewLedger()
	for u := 1; u <= 150; u++ {
		l.CompletedUnits.Add(u)
	}
	today := calendar.HebrewDate{Year: 5785, Month: calendar.Kislev, Day: 10}

	days := MonthStatus(l, cheshvan(29), today, true)
	require.Len(t, days, 29)
	for _, d := range days {
		assert.Equal(t, StatusPending, d.Status, d.Day)
	}
}

func TestCatchUp(t *testing.T) {
	l := NewLedger()
	for u := 10; u <= 17; u++ {
		l.CompletedUnits.Add(u)
	}
	today := calendar.HebrewDate{Year: 5785, Month: calendar.Cheshvan, Day: 10}

	scheme, err := CatchUp(l, today, 4)
	require.NoError(t, err)
	assert.Equal(t, schedule.Scheme{Kind: schedule.KindCatchUp, Start: 23, End: 28, Ordinal: 4}, scheme)

	for _, ordinal := range []int{0, 2, 10, 11} {
		_, err := CatchUp(l, today, ordinal)
		assert.ErrorIs(t, err, ErrNotMissed, ordinal)
	}
}
