package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExempt(t *testing.T) {
	weekday := NewDay(2024, time.October, 7) // Monday
	saturday := NewDay(2024, time.October, 5)

	tests := []struct {
		name   string
		day    Day
		events []string
		want   bool
	}{
		{"saturday without events", saturday, nil, true},
		{"weekday without events", weekday, nil, false},
		{"weekday with empty events", weekday, []string{}, false},
		{"festival", weekday, []string{"סוכות ב׳"}, true},
		{"yom tov marker", weekday, []string{"יום טוב שני"}, true},
		{"fast day", weekday, []string{"צום גדליה"}, true},
		{"yom kippur", weekday, []string{"ערב יום כיפור"}, true},
		{"rosh chodesh is not exempt", weekday, []string{"ראש חודש חשון"}, false},
		{"chanukah is not exempt", weekday, []string{"חנוכה: 3 נרות"}, false},
		{"untranslated english is not exempt", weekday, []string{"Sukkot II"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExempt(tt.day, tt.events))
		})
	}
}

func TestTranslateEvents(t *testing.T) {
	got := TranslateEvents([]string{"Erev Rosh Hashana 5786", "Tzom Gedaliah", "Shabbat Shuva", "Parashat Noach"})
	assert.Equal(t, []string{"ערב ראש השנה 5786", "צום Gedaliah", "שבת קודש Shuva", "Parashat Noach"}, got)
	assert.Empty(t, TranslateEvents(nil))
}

func TestObservances(t *testing.T) {
	tests := []struct {
		name string
		day  Day
		want string
	}{
		{"rosh hashana", NewDay(2024, time.October, 3), "ראש השנה"},
		{"yom kippur", NewDay(2024, time.October, 12), "יום כיפור"},
		{"shabbat", NewDay(2024, time.October, 12), "שבת קודש"},
		{"postponed tzom gedaliah", NewDay(2024, time.October, 6), "צום גדליה"},
		{"pesach", NewDay(2025, time.April, 13), "פסח"},
		{"chanukah", NewDay(2024, time.December, 26), "חנוכה"},
		{"purim in adar II", NewDay(2024, time.March, 24), "פורים"},
		{"rosh chodesh kislev on 30 cheshvan", NewDay(2024, time.December, 1), "ראש חודש כסלו"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Observances(tt.day), tt.want)
		})
	}

	// 3 Tishrei 5785 was Shabbat, so the fast is not on it.
	assert.NotContains(t, Observances(NewDay(2024, time.October, 5)), "צום גדליה")
	assert.Empty(t, Observances(NewDay(2024, time.October, 29)))
}
