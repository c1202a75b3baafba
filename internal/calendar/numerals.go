package calendar

import (
	"strings"
	"time"
)

// DayName returns the Hebrew day-of-week name (ראשון through שבת).
func DayName(weekday time.Weekday) string {
	days := []string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"}
	return days[weekday]
}

var (
	numeralUnits    = []string{"", "א", "ב", "ג", "ד", "ה", "ו", "ז", "ח", "ט"}
	numeralTens     = []string{"", "י", "כ", "ל", "מ", "נ", "ס", "ע", "פ", "צ"}
	numeralHundreds = []string{"", "ק", "ר", "ש", "ת", "תק", "תר", "תש", "תת", "תתק"}
)

// HebrewNumeral writes n (1-999) in Hebrew letters without punctuation.
// 15 and 16 are written טו and טז to avoid spelling the divine name.
// Values outside the range return "".
func HebrewNumeral(n int) string {
	if n <= 0 || n > 999 {
		return ""
	}

	var b strings.Builder
	b.WriteString(numeralHundreds[n/100])

	switch rem := n % 100; rem {
	case 15:
		b.WriteString("טו")
	case 16:
		b.WriteString("טז")
	default:
		b.WriteString(numeralTens[rem/10])
		b.WriteString(numeralUnits[rem%10])
	}
	return b.String()
}

// FormatHebrewYear formats a Hebrew year with thousands and gershayim,
// e.g. 5785 -> ה'תשפ"ה.
func FormatHebrewYear(year int) string {
	var prefix string
	if thousands := year / 1000; thousands > 0 {
		prefix = HebrewNumeral(thousands) + "'"
	}

	letters := []rune(HebrewNumeral(year % 1000))
	switch len(letters) {
	case 0:
		return strings.TrimSuffix(prefix, "'")
	case 1:
		return prefix + string(letters) + "'"
	default:
		last := len(letters) - 1
		return prefix + string(letters[:last]) + `"` + string(letters[last])
	}
}
