package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

// FormatRange formats a reading range with its note, e.g. "119 (פסוקים א-צו)".
func FormatRange(r schedule.Range) string {
	if r.Note != "" {
		return fmt.Sprintf("%s (%s)", r, r.Note)
	}
	return r.String()
}

// FormatToday renders today's reading.
func FormatToday(v tracker.TodayView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Bold(v.Hebrew.Label), Dim(fmt.Sprintf("יום %s, %s", v.Weekday, v.Day)))
	if len(v.Hebrew.Events) > 0 {
		fmt.Fprintf(&b, "%s\n", StyleBlue.Render(strings.Join(v.Hebrew.Events, " · ")))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Scheme:   %s\n", v.Scheme)
	fmt.Fprintf(&b, "Reading:  %s\n", Bold(FormatRange(v.Range)))

	switch {
	case v.CompletedToday:
		fmt.Fprintf(&b, "Status:   %s\n", StyleGreen.Render("✓ completed"))
	case v.Exempt:
		fmt.Fprintf(&b, "Status:   %s\n", Dim("exempt day"))
	default:
		fmt.Fprintf(&b, "Status:   %s\n", StyleYellow.Render("not yet read"))
	}

	if v.Gap != nil {
		b.WriteString("\n")
		b.WriteString(formatGap(v.Gap))
	}
	return b.String()
}

// FormatCompletion renders the result of recording a reading.
func FormatCompletion(mode tracker.Mode, l tracker.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s reading recorded\n", StyleGreen.Render("✓"), mode)
	fmt.Fprintf(&b, "Streak: %s  %s\n",
		Bold(strconv.Itoa(l.CurrentStreak)),
		Dim(fmt.Sprintf("(best %d)", l.MaxStreak)),
	)
	fmt.Fprintf(&b, "Cycle:  %d/%d chapters\n", len(l.CompletedUnits), schedule.TotalUnits)
	return b.String()
}

// FormatStatus renders the ledger counters and cycle progress.
func FormatStatus(l tracker.Ledger, completedToday bool, gap *tracker.ProtectedGap) string {
	last := "never"
	if l.LastCompletionDate != nil {
		last = l.LastCompletionDate.String()
	}
	today := StyleYellow.Render("no")
	if completedToday {
		today = StyleGreen.Render("yes")
	}

	rows := [][]string{
		{"Current streak", strconv.Itoa(l.CurrentStreak)},
		{"Best streak", strconv.Itoa(l.MaxStreak)},
		{"Chapters read", strconv.Itoa(l.TotalUnitsCompleted)},
		{"Days completed", strconv.Itoa(l.DaysCompleted)},
		{"Cycles completed", strconv.Itoa(l.CyclesCompleted)},
		{"Cycle coverage", fmt.Sprintf("%d/%d %s", len(l.CompletedUnits), schedule.TotalUnits, ProgressBar(len(l.CompletedUnits), schedule.TotalUnits, 20))},
		{"Active scheme", string(l.ActiveScheme)},
		{"Last read", last},
		{"Read today", today},
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"STAT", "VALUE"}, rows))
	if gap != nil {
		b.WriteString("\n")
		b.WriteString(formatGap(gap))
	}
	return b.String()
}

// FormatSchedule renders a cycle table.
func FormatSchedule(kind schedule.Kind, table []schedule.Range) string {
	label := "DAY"
	if kind == schedule.KindWeekly {
		label = "WEEKDAY"
	}

	rows := make([][]string, 0, len(table))
	for _, r := range table {
		rows = append(rows, []string{strconv.Itoa(r.Ordinal), FormatRange(r), strconv.Itoa(r.Len())})
	}
	return RenderTable([]string{label, "CHAPTERS", "COUNT"}, rows)
}

// FormatBooks renders the five books.
func FormatBooks(books []schedule.Book) string {
	rows := make([][]string, 0, len(books))
	for _, book := range books {
		rows = append(rows, []string{strconv.Itoa(book.ID), book.Name, book.Range.String()})
	}
	return RenderTable([]string{"BOOK", "NAME", "CHAPTERS"}, rows)
}

// ProgressBar renders done/total as a fixed-width bar.
func ProgressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := min(done*width/total, width)
	filled = max(filled, 0)
	return StyleGreen.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}

func formatGap(g *tracker.ProtectedGap) string {
	return fmt.Sprintf("%s %s (%s) was missed on an exempt day. Catch up with chapters %s.\n",
		StyleYellow.Render("!"),
		g.Label,
		g.Day,
		Bold(FormatRange(g.Range)),
	)
}
