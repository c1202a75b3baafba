package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

const cellWidth = 5

// weekdayInitials heads the grid columns, Sunday first.
var weekdayInitials = []string{"א׳", "ב׳", "ג׳", "ד׳", "ה׳", "ו׳", "ש׳"}

// FormatMonth renders a Hebrew month as a Sunday-first grid, each cell
// colored by its status, followed by a legend.
func FormatMonth(view calendar.MonthView, days []tracker.MonthDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Header(view.MonthName+" "+view.YearLabel))

	for _, name := range weekdayInitials {
		b.WriteString(pad(Dim(name), cellWidth))
	}
	b.WriteString("\n")

	col := int(view.StartWeekday)
	b.WriteString(strings.Repeat(" ", col*cellWidth))
	for _, d := range days {
		b.WriteString(pad(StatusStyle(d.Status).Render(d.Label), cellWidth))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s done  %s missed  %s today  %s pending\n",
		StatusStyle(tracker.StatusDone).Render("■"),
		StatusStyle(tracker.StatusMissed).Render("■"),
		StatusStyle(tracker.StatusToday).Render("■"),
		StatusStyle(tracker.StatusPending).Render("■"),
	)
	return b.String()
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s + " "
}
