// Package cli implements the tehillim command line on top of the reading
// engine.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/content"
	"github.com/zapponejosh/tehillim-tracker/internal/database"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

// App holds everything CLI commands dispatch to.
type App struct {
	Engine  *tracker.Engine
	Store   tracker.Store
	Oracle  calendar.Oracle
	Content content.Provider
	DB      *database.DB // optional; verify skips the database check without it
	Today   func() calendar.Day
	Serve   func(ctx context.Context) error
}

// NewRootCmd creates the top-level "tehillim" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tehillim",
		Short:         "Daily Tehillim reading tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newTodayCmd(app),
		newReadCmd(app),
		newStatusCmd(app),
		newScheduleCmd(app),
		newMonthCmd(app),
		newVerifyCmd(app),
		newExportCmd(app),
		newImportCmd(app),
	)

	return root
}
