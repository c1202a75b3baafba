package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zapponejosh/tehillim-tracker/internal/cli/formatter"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the ledger as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(app.Engine.Snapshot(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// newImportCmd replaces the ledger with an exported one. Fields that fail
// to decode keep their zero values; a file that is not a JSON object at
// all is rejected and nothing is written.
func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the ledger with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return errors.New("no store configured")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var probe map[string]json.RawMessage
			if err := json.Unmarshal(data, &probe); err != nil {
				return fmt.Errorf("%s is not a ledger: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			ledger, err := tracker.DecodeLedger(data)
			if err != nil {
				fmt.Fprintln(out, formatter.StyleYellow.Render("warning: "+err.Error()))
			}

			ctx := cmd.Context()
			if err := app.Store.Save(ctx, ledger); err != nil {
				return fmt.Errorf("save ledger: %w", err)
			}
			if err := app.Engine.Start(ctx, app.Today()); err != nil {
				return err
			}

			e := app.Engine
			fmt.Fprint(out, formatter.FormatStatus(e.Snapshot(), e.CompletedToday(app.Today()), e.ProtectedGap()))
			return nil
		},
	}
}
