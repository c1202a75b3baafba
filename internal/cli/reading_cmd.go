package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zapponejosh/tehillim-tracker/internal/cli/formatter"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

func newTodayCmd(app *App) *cobra.Command {
	var withText bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			view, err := app.Engine.Today(ctx, app.Today())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatToday(view))

			if !withText || app.Content == nil {
				return nil
			}
			chapters, err := app.Content.FetchUnits(ctx, view.Range.Start, view.Range.End)
			if err != nil {
				return err
			}
			for _, ch := range chapters {
				fmt.Fprintf(out, "\n%s %s\n", formatter.Header(fmt.Sprintf("תהילים %d", ch.Number)), formatter.Dim(ch.Source))
				fmt.Fprintln(out, strings.Join(ch.Verses, "\n"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withText, "text", false, "Print the chapter text")

	return cmd
}

func newReadCmd(app *App) *cobra.Command {
	var mode string
	var req tracker.Request

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Record a finished reading",
		Long: `Record a finished reading.

Modes:
  daily    today's reading under the active scheme (default)
  book     one of the five books (--book 1..5)
  single   an explicit range (--start, --end)
  catchup  a missed day of this month (--ordinal, defaults to the protected day)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Mode = tracker.Mode(strings.ToLower(mode))
			if req.Mode == tracker.ModeSingle && req.End == 0 {
				req.End = req.Start
			}

			ledger, err := app.Engine.Complete(cmd.Context(), app.Today(), req)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompletion(req.Mode, ledger))
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(tracker.ModeDaily), "daily, book, single or catchup")
	cmd.Flags().IntVar(&req.Book, "book", 0, "Book number for --mode book")
	cmd.Flags().IntVar(&req.Start, "start", 0, "First chapter for --mode single")
	cmd.Flags().IntVar(&req.End, "end", 0, "Last chapter for --mode single (defaults to --start)")
	cmd.Flags().IntVar(&req.Ordinal, "ordinal", 0, "Hebrew day of month for --mode catchup")

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show streaks and cycle progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := app.Engine
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(e.Snapshot(), e.CompletedToday(app.Today()), e.ProtectedGap()))
			return nil
		},
	}
}
