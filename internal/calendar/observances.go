package calendar

import (
	"strings"
	"time"
)

// RestDay is the weekly rest day. Gaps on this day never break a streak.
const RestDay = time.Saturday

// exemptKeywords mark observances on which missing a reading is forgiven:
// Shabbat, Yom Tov, the pilgrimage festivals, the high holy days and fasts.
var exemptKeywords = []string{
	"יום טוב",
	"פסח",
	"שבועות",
	"סוכות",
	"ראש השנה",
	"יום כיפור",
	"שבת",
	"צום",
}

// IsExempt reports whether a missed reading on day is forgiven.
// The weekly rest day is always exempt; otherwise any observance containing
// one of the exempt keywords (case-sensitive substring) qualifies.
// A nil events slice only checks the weekday.
func IsExempt(day Day, events []string) bool {
	if day.Weekday() == RestDay {
		return true
	}
	for _, event := range events {
		for _, keyword := range exemptKeywords {
			if strings.Contains(event, keyword) {
				return true
			}
		}
	}
	return false
}

// eventTranslations maps hebcal event fragments to Hebrew. Order matters:
// longer fragments that share a prefix come first.
var eventTranslations = []struct{ from, to string }{
	{"Shabbat", "שבת קודש"},
	{"Pesach", "פסח"},
	{"Shavuot", "שבועות"},
	{"Sukkot", "סוכות"},
	{"Rosh Hashana", "ראש השנה"},
	{"Yom Kippur", "יום כיפור"},
	{"Chanukah", "חנוכה"},
	{"Purim", "פורים"},
	{"Yom Tov", "יום טוב"},
	{"Rosh Chodesh", "ראש חודש"},
	{"Tzom", "צום"},
	{"Fast of", "צום"},
	{"Erev", "ערב"},
	{"Lag BaOmer", "ל״ג בעומר"},
	{"Shmini Atzeret", "שמיני עצרת"},
	{"Simchat Torah", "שמחת תורה"},
}

// TranslateEvents replaces known English fragments in hebcal event names
// with their Hebrew equivalents. Unknown text is left untouched.
func TranslateEvents(events []string) []string {
	out := make([]string, 0, len(events))
	for _, event := range events {
		for _, t := range eventTranslations {
			event = strings.Replace(event, t.from, t.to, 1)
		}
		out = append(out, event)
	}
	return out
}

// Observances computes the observances of a civil day from the Hebrew
// calendar alone. Diaspora festival lengths are used.
func Observances(d Day) []string {
	year, month, day := ToHebrew(d)
	weekday := d.Weekday()
	var events []string

	if weekday == RestDay {
		events = append(events, "שבת קודש")
	}

	if day == 1 && month != Tishrei || day == 30 {
		events = append(events, "ראש חודש "+MonthName(year, roshChodeshMonth(year, month, day)))
	}

	purimMonth := AdarI
	if IsLeapYear(year) {
		purimMonth = AdarII
	}

	switch {
	case month == Elul && day == 29:
		events = append(events, "ערב ראש השנה")
	case month == Tishrei && (day == 1 || day == 2):
		events = append(events, "ראש השנה")
	case month == Tishrei && day == 9:
		events = append(events, "ערב יום כיפור")
	case month == Tishrei && day == 10:
		events = append(events, "יום כיפור")
	case month == Tishrei && day >= 15 && day <= 21:
		events = append(events, "סוכות")
	case month == Tishrei && day == 22:
		events = append(events, "שמיני עצרת")
	case month == Tishrei && day == 23:
		events = append(events, "שמחת תורה")
	case month == Tevet && day == 10:
		events = append(events, "צום עשרה בטבת")
	case month == Shvat && day == 15:
		events = append(events, "ט״ו בשבט")
	case month == purimMonth && day == 14:
		events = append(events, "פורים")
	case month == purimMonth && day == 15:
		events = append(events, "שושן פורים")
	case month == Nisan && day == 14:
		events = append(events, "ערב פסח")
	case month == Nisan && day >= 15 && day <= 22:
		events = append(events, "פסח")
	case month == Iyyar && day == 18:
		events = append(events, "ל״ג בעומר")
	case month == Sivan && (day == 6 || day == 7):
		events = append(events, "שבועות")
	}

	// Fasts that fall on Shabbat are postponed to Sunday; Ta'anit Esther is
	// moved back to Thursday.
	if isFast(year, month, day, weekday, Tishrei, 3) {
		events = append(events, "צום גדליה")
	}
	if isFast(year, month, day, weekday, Tamuz, 17) {
		events = append(events, "צום י״ז בתמוז")
	}
	if isFast(year, month, day, weekday, Av, 9) {
		events = append(events, "צום תשעה באב")
	}
	if month == purimMonth && (day == 13 && weekday != RestDay || day == 11 && weekday == time.Thursday) {
		events = append(events, "תענית אסתר")
	}

	if chanukah := hebrewToFixed(year, Kislev, 25); d.fixed() >= chanukah && d.fixed() < chanukah+8 {
		events = append(events, "חנוכה")
	}

	if events == nil {
		events = []string{}
	}
	return events
}

// isFast reports whether the given date observes a fast nominally set on
// fastMonth/fastDay, postponed to Sunday when the nominal date is Shabbat.
func isFast(year int, month HebrewMonth, day int, weekday time.Weekday, fastMonth HebrewMonth, fastDay int) bool {
	if month != fastMonth {
		return false
	}
	nominal := FromHebrew(year, fastMonth, fastDay)
	if nominal.Weekday() == RestDay {
		return day == fastDay+1
	}
	return day == fastDay && weekday != RestDay
}

// roshChodeshMonth returns the month a Rosh Chodesh day belongs to: the
// 30th of a month announces the next one.
func roshChodeshMonth(year int, month HebrewMonth, day int) HebrewMonth {
	if day == 30 {
		_, next := AddMonths(year, month, 1)
		return next
	}
	return month
}
