package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zapponejosh/tehillim-tracker/internal/cli/formatter"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
)

// ErrVerifyFailed is returned by verify when any check fails.
var ErrVerifyFailed = errors.New("verification failed")

type check struct {
	name string
	run  func(ctx context.Context) error
}

func newVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the reading tables, calendar and database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rows := make([][]string, 0)
			failed := 0
			for _, c := range verifyChecks(app) {
				result := formatter.StyleGreen.Render("ok")
				detail := ""
				if err := c.run(ctx); err != nil {
					failed++
					result = formatter.StyleRed.Render("FAIL")
					detail = err.Error()
				}
				rows = append(rows, []string{c.name, result, detail})
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"CHECK", "RESULT", "DETAIL"}, rows))
			if failed > 0 {
				return fmt.Errorf("%w: %d check(s)", ErrVerifyFailed, failed)
			}
			return nil
		},
	}
}

func verifyChecks(app *App) []check {
	checks := []check{
		{"weekly table", func(context.Context) error { return schedule.Validate(schedule.Weekly) }},
		{"monthly table", func(context.Context) error { return schedule.Validate(schedule.Monthly) }},
		{"books", func(context.Context) error {
			ranges := make([]schedule.Range, 0, len(schedule.Books))
			for _, b := range schedule.Books {
				ranges = append(ranges, b.Range)
			}
			return schedule.Validate(ranges)
		}},
		{"calendar round trip", func(ctx context.Context) error {
			today := app.Today()
			hd, err := app.Oracle.DateToHebrew(ctx, today)
			if err != nil {
				return err
			}
			back, err := app.Oracle.HebrewToDate(ctx, hd.Year, hd.Month, hd.Day)
			if err != nil {
				return err
			}
			if back != today {
				return fmt.Errorf("%s resolved to %s and back to %s", today, hd.Label, back)
			}
			return nil
		}},
	}

	if app.DB != nil {
		checks = append(checks, check{"database", app.DB.Health})
	}
	return checks
}
