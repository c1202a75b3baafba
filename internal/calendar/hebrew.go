package calendar

import (
	"strings"
)

// HebrewMonth identifies a month of the Hebrew year. Numbering starts at
// Nisan; the civil year begins at Tishrei (7).
type HebrewMonth int

const (
	Nisan HebrewMonth = iota + 1
	Iyyar
	Sivan
	Tamuz
	Av
	Elul
	Tishrei
	Cheshvan
	Kislev
	Tevet
	Shvat
	AdarI // plain Adar in a common year
	AdarII
)

// hebrewEpoch is the R.D. offset of the Hebrew calendar used with
// elapsedDays.
const hebrewEpoch = -1373428

// avgHebrewYear is the mean year length over the 19-year cycle.
const avgHebrewYear = 365.24682220597794

// HebrewDate is a resolved Hebrew calendar date together with the
// observances that fall on it.
type HebrewDate struct {
	Year      int         `json:"year"`
	Month     HebrewMonth `json:"month"`
	MonthName string      `json:"month_name"`
	Day       int         `json:"day"`
	Label     string      `json:"label"`
	Events    []string    `json:"events"`
}

// SameMonth reports whether h and other fall in the same Hebrew month and year.
func (h HebrewDate) SameMonth(other HebrewDate) bool {
	return h.Year == other.Year && h.Month == other.Month
}

// NewHebrewDate builds a HebrewDate with its display label filled in.
func NewHebrewDate(year int, month HebrewMonth, day int, events []string) HebrewDate {
	name := MonthName(year, month)
	if events == nil {
		events = []string{}
	}
	return HebrewDate{
		Year:      year,
		Month:     month,
		MonthName: name,
		Day:       day,
		Label:     HebrewNumeral(day) + " " + name + " " + FormatHebrewYear(year),
		Events:    events,
	}
}

// IsLeapYear reports whether the Hebrew year has thirteen months.
func IsLeapYear(year int) bool {
	return (1+year*7)%19 < 7
}

// MonthsInYear returns 12 or 13.
func MonthsInYear(year int) int {
	if IsLeapYear(year) {
		return 13
	}
	return 12
}

// elapsedDays returns the number of days from the epoch to Rosh Hashana of
// year, applying the four postponement rules.
func elapsedDays(year int) int {
	prev := year - 1
	monthsElapsed := 235*(prev/19) + 12*(prev%19) + ((prev%19)*7+1)/19
	partsElapsed := 204 + 793*(monthsElapsed%1080)
	hoursElapsed := 5 + 12*monthsElapsed + 793*(monthsElapsed/1080) + partsElapsed/1080
	parts := partsElapsed%1080 + 1080*(hoursElapsed%24)
	day := 1 + 29*monthsElapsed + hoursElapsed/24

	alt := day
	if parts >= 19440 ||
		(day%7 == 2 && parts >= 9924 && !IsLeapYear(year)) ||
		(day%7 == 1 && parts >= 16789 && IsLeapYear(prev)) {
		alt++
	}
	// Rosh Hashana never falls on Sunday, Wednesday or Friday.
	switch alt % 7 {
	case 0, 3, 5:
		alt++
	}
	return alt
}

// DaysInYear returns the length of the Hebrew year (353-355 or 383-385).
func DaysInYear(year int) int {
	return elapsedDays(year+1) - elapsedDays(year)
}

// DaysInMonth returns 29 or 30.
func DaysInMonth(year int, month HebrewMonth) int {
	switch month {
	case Iyyar, Tamuz, Elul, Tevet, AdarII:
		return 29
	case AdarI:
		if !IsLeapYear(year) {
			return 29
		}
	case Cheshvan:
		if DaysInYear(year)%10 != 5 {
			return 29
		}
	case Kislev:
		if DaysInYear(year)%10 == 3 {
			return 29
		}
	}
	return 30
}

// hebrewToFixed returns the R.D. day number of a Hebrew date.
func hebrewToFixed(year int, month HebrewMonth, day int) int {
	days := day
	if month < Tishrei {
		for m := Tishrei; m <= HebrewMonth(MonthsInYear(year)); m++ {
			days += DaysInMonth(year, m)
		}
		for m := Nisan; m < month; m++ {
			days += DaysInMonth(year, m)
		}
	} else {
		for m := Tishrei; m < month; m++ {
			days += DaysInMonth(year, m)
		}
	}
	return hebrewEpoch + elapsedDays(year) + days - 1
}

// fixedToHebrew is the inverse of hebrewToFixed.
func fixedToHebrew(rd int) (int, HebrewMonth, int) {
	year := int(float64(rd-hebrewEpoch)/avgHebrewYear) - 1
	for hebrewToFixed(year+1, Tishrei, 1) <= rd {
		year++
	}

	month := Nisan
	if rd < hebrewToFixed(year, Nisan, 1) {
		month = Tishrei
	}
	for rd > hebrewToFixed(year, month, DaysInMonth(year, month)) {
		month++
	}
	return year, month, 1 + rd - hebrewToFixed(year, month, 1)
}

// ToHebrew converts a civil day to its Hebrew date (year, month, day).
// The civil day is taken as a whole; evening transitions are ignored.
func ToHebrew(d Day) (int, HebrewMonth, int) {
	return fixedToHebrew(d.fixed())
}

// FromHebrew converts a Hebrew date to the civil day it falls on.
func FromHebrew(year int, month HebrewMonth, day int) Day {
	return dayFromFixed(hebrewToFixed(year, month, day))
}

// monthNames holds the Hebrew month names. Adar I is "אדר" in common years.
var monthNames = map[HebrewMonth]string{
	Nisan:    "ניסן",
	Iyyar:    "אייר",
	Sivan:    "סיון",
	Tamuz:    "תמוז",
	Av:       "אב",
	Elul:     "אלול",
	Tishrei:  "תשרי",
	Cheshvan: "חשון",
	Kislev:   "כסלו",
	Tevet:    "טבת",
	Shvat:    "שבט",
	AdarI:    "אדר א'",
	AdarII:   "אדר ב'",
}

// MonthName returns the Hebrew name of month in year.
func MonthName(year int, month HebrewMonth) string {
	if month == AdarI && !IsLeapYear(year) {
		return "אדר"
	}
	return monthNames[month]
}

// englishMonthNames are the transliterations the hebcal converter expects.
var englishMonthNames = map[HebrewMonth]string{
	Nisan:    "Nisan",
	Iyyar:    "Iyyar",
	Sivan:    "Sivan",
	Tamuz:    "Tamuz",
	Av:       "Av",
	Elul:     "Elul",
	Tishrei:  "Tishrei",
	Cheshvan: "Cheshvan",
	Kislev:   "Kislev",
	Tevet:    "Tevet",
	Shvat:    "Shvat",
	AdarI:    "Adar1",
	AdarII:   "Adar2",
}

// EnglishMonthName returns the transliterated month name.
func EnglishMonthName(year int, month HebrewMonth) string {
	if month == AdarI && !IsLeapYear(year) {
		return "Adar"
	}
	return englishMonthNames[month]
}

// ParseMonth maps a Hebrew or transliterated month name to a HebrewMonth.
// It accepts the spelling variants the hebcal converter returns.
func ParseMonth(name string) (HebrewMonth, bool) {
	key := strings.ToLower(strings.NewReplacer("'", "", " ", "", "-", "").Replace(name))
	switch key {
	case "nisan", "ניסן":
		return Nisan, true
	case "iyyar", "iyar", "אייר":
		return Iyyar, true
	case "sivan", "סיון", "סיוון":
		return Sivan, true
	case "tamuz", "tammuz", "תמוז":
		return Tamuz, true
	case "av", "אב":
		return Av, true
	case "elul", "אלול":
		return Elul, true
	case "tishrei", "tishri", "תשרי":
		return Tishrei, true
	case "cheshvan", "heshvan", "חשון", "חשוון":
		return Cheshvan, true
	case "kislev", "כסלו":
		return Kislev, true
	case "tevet", "teves", "טבת":
		return Tevet, true
	case "shvat", "shevat", "שבט":
		return Shvat, true
	case "adar", "adar1", "adari", "אדר", "אדרא":
		return AdarI, true
	case "adar2", "adarii", "אדרב":
		return AdarII, true
	}
	return 0, false
}

// yearOrder returns the months of a Hebrew year in civil order, starting
// at Tishrei.
func yearOrder(year int) []HebrewMonth {
	months := []HebrewMonth{Tishrei, Cheshvan, Kislev, Tevet, Shvat, AdarI}
	if IsLeapYear(year) {
		months = append(months, AdarII)
	}
	return append(months, Nisan, Iyyar, Sivan, Tamuz, Av, Elul)
}

// AddMonths moves n months forward (or backward when negative) from
// year/month, crossing year boundaries at Tishrei.
func AddMonths(year int, month HebrewMonth, n int) (int, HebrewMonth) {
	for ; n > 0; n-- {
		order := yearOrder(year)
		i := indexOf(order, month)
		if i == len(order)-1 {
			year++
			month = Tishrei
			continue
		}
		month = order[i+1]
	}
	for ; n < 0; n++ {
		order := yearOrder(year)
		i := indexOf(order, month)
		if i <= 0 {
			year--
			month = Elul
			continue
		}
		month = order[i-1]
	}
	return year, month
}

func indexOf(order []HebrewMonth, month HebrewMonth) int {
	for i, m := range order {
		if m == month {
			return i
		}
	}
	// AdarII outside a leap year behaves like the single Adar.
	if month == AdarII {
		return indexOf(order, AdarI)
	}
	return -1
}
