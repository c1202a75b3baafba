package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/cli/formatter"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

func newScheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "schedule [weekly|monthly|books]",
		Short:     "Print a reading table (defaults to the active scheme)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"weekly", "monthly", "books"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := string(app.Engine.Snapshot().ActiveScheme)
			if len(args) == 1 {
				name = args[0]
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(name) {
			case "week", "weekly":
				fmt.Fprint(out, formatter.FormatSchedule(schedule.KindWeekly, schedule.Weekly))
			case "month", "monthly":
				fmt.Fprint(out, formatter.FormatSchedule(schedule.KindMonthly, schedule.Monthly))
			case "book", "books":
				fmt.Fprint(out, formatter.FormatBooks(schedule.Books))
			default:
				return fmt.Errorf("unknown schedule %q: use weekly, monthly or books", name)
			}
			return nil
		},
	}
}

func newMonthCmd(app *App) *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show the Hebrew month grid with reading status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			today := app.Today()

			hebrewToday, err := app.Oracle.DateToHebrew(ctx, today)
			if err != nil {
				return err
			}

			nav := calendar.NewNavigator(app.Oracle, hebrewToday.Year, hebrewToday.Month)
			view, err := nav.Navigate(ctx, offset)
			if err != nil {
				return err
			}

			days := tracker.MonthStatus(app.Engine.Snapshot(), view, hebrewToday, app.Engine.CompletedToday(today))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMonth(view, days))
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Months to move from the current one (negative for earlier)")

	return cmd
}
