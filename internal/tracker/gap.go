package tracker

import (
	"context"

	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
)

// maxGapScan bounds how far back DetectProtectedGap looks. No Hebrew month
// is longer than 30 days, so older days can never share today's month.
const maxGapScan = 60

// ProtectedGap marks a day of the current Hebrew month that was missed for
// an exempt reason and whose monthly reading can still be caught up.
type ProtectedGap struct {
	Ordinal int            `json:"ordinal"`
	Day     calendar.Day   `json:"day"`
	Label   string         `json:"label"`
	Range   schedule.Range `json:"range"`
}

// DetectProtectedGap looks for the earliest exempt day between the last
// completion and today that falls in today's Hebrew month and whose monthly
// reading has not been started. It returns nil when there is none.
func DetectProtectedGap(ctx context.Context, l Ledger, today calendar.Day, hebrewToday calendar.HebrewDate, oracle calendar.Oracle) (*ProtectedGap, error) {
	if l.LastCompletionDate == nil {
		return nil, nil
	}

	days := l.LastCompletionDate.Between(today)
	if len(days) > maxGapScan {
		days = days[len(days)-maxGapScan:]
	}

	for _, day := range days {
		hd, err := oracle.DateToHebrew(ctx, day)
		if err != nil {
			return nil, err
		}
		if !calendar.IsExempt(day, hd.Events) || !hd.SameMonth(hebrewToday) {
			continue
		}
		r := schedule.MonthlyForDay(hd.Day)
		if l.CompletedUnits.Has(r.Start) {
			continue
		}
		return &ProtectedGap{
			Ordinal: hd.Day,
			Day:     day,
			Label:   hd.Label,
			Range:   r,
		}, nil
	}
	return nil, nil
}
