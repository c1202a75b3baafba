package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
)

func hebrewDay(day int) calendar.HebrewDate {
	return calendar.HebrewDate{Year: 5785, Month: calendar.Kislev, Day: day}
}

func TestTablesTileAllChapters(t *testing.T) {
	require.NoError(t, Validate(Monthly))
	require.NoError(t, Validate(Weekly))

	books := make([]Range, 0, len(Books))
	for _, b := range Books {
		books = append(books, b.Range)
	}
	require.NoError(t, Validate(books))

	assert.Len(t, Monthly, 30)
	assert.Len(t, Weekly, 7)
}

func TestTablesHaveSequentialOrdinals(t *testing.T) {
	for i, r := range Monthly {
		assert.Equal(t, i+1, r.Ordinal)
	}
	for i, r := range Weekly {
		assert.Equal(t, i+1, r.Ordinal)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		table []Range
	}{
		{"empty", nil},
		{"gap", []Range{{Start: 1, End: 10}, {Start: 12, End: 150}}},
		{"overlap", []Range{{Start: 1, End: 10}, {Start: 10, End: 150}}},
		{"short", []Range{{Start: 1, End: 149}}},
		{"reversed", []Range{{Start: 150, End: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tt.table), ErrInvalidTable)
		})
	}
}

func TestResolve_Monthly(t *testing.T) {
	day := calendar.NewDay(2024, time.December, 26)

	first := Resolve(hebrewDay(25), day, MonthlyScheme())
	assert.Equal(t, Range{Ordinal: 25, Start: 119, End: 119, Note: NoteFirstHalf}, first)

	second := Resolve(hebrewDay(26), day, MonthlyScheme())
	assert.Equal(t, Range{Ordinal: 26, Start: 119, End: 119, Note: NoteSecondHalf}, second)

	assert.Equal(t, Range{Ordinal: 1, Start: 1, End: 9}, Resolve(hebrewDay(1), day, MonthlyScheme()))
	assert.Equal(t, Range{Ordinal: 30, Start: 145, End: 150}, Resolve(hebrewDay(30), day, MonthlyScheme()))
}

func TestResolve_MonthlyOutOfBoundsFallsBackToFirstEntry(t *testing.T) {
	day := calendar.NewDay(2024, time.December, 26)
	assert.Equal(t, Monthly[0], Resolve(hebrewDay(0), day, MonthlyScheme()))
	assert.Equal(t, Monthly[0], Resolve(hebrewDay(31), day, MonthlyScheme()))
}

func TestResolve_Weekly(t *testing.T) {
	sunday := calendar.NewDay(2024, time.October, 6)
	saturday := calendar.NewDay(2024, time.October, 12)

	assert.Equal(t, Range{Ordinal: 1, Start: 1, End: 29}, Resolve(hebrewDay(4), sunday, WeeklyScheme()))
	assert.Equal(t, Range{Ordinal: 7, Start: 120, End: 150}, Resolve(hebrewDay(10), saturday, WeeklyScheme()))
}

func TestResolve_AdHoc(t *testing.T) {
	day := calendar.NewDay(2024, time.October, 6)

	single := Resolve(hebrewDay(4), day, SingleScheme(23, 23))
	assert.Equal(t, Range{Start: 23, End: 23}, single)
	assert.Zero(t, single.Ordinal)

	book := Resolve(hebrewDay(4), day, BookScheme(3))
	assert.Equal(t, Range{Ordinal: 3, Start: 73, End: 89}, book)

	unknownBook := Resolve(hebrewDay(4), day, BookScheme(9))
	assert.Equal(t, Books[0].Range, unknownBook)

	catchUp := Resolve(hebrewDay(4), day, CatchUpScheme(26))
	assert.Equal(t, Range{Ordinal: 26, Start: 119, End: 119, Note: NoteSecondHalf}, catchUp)
}

func TestRange_Units(t *testing.T) {
	r := Range{Start: 145, End: 150}
	assert.Equal(t, 6, r.Len())
	assert.Equal(t, []int{145, 146, 147, 148, 149, 150}, r.Units())
	assert.Equal(t, "145-150", r.String())
	assert.Equal(t, "119", Range{Start: 119, End: 119}.String())
}

func TestKind(t *testing.T) {
	assert.True(t, KindWeekly.IsCycle())
	assert.True(t, KindMonthly.IsCycle())
	assert.False(t, KindBook.IsCycle())
	assert.True(t, KindCatchUp.IsValid())
	assert.False(t, Kind("custom").IsValid())
}
