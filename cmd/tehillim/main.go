// Package main is the entry point for the tehillim reading tracker.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/tehillim-tracker/internal/api"
	"github.com/zapponejosh/tehillim-tracker/internal/calendar"
	"github.com/zapponejosh/tehillim-tracker/internal/cli"
	"github.com/zapponejosh/tehillim-tracker/internal/config"
	"github.com/zapponejosh/tehillim-tracker/internal/content"
	"github.com/zapponejosh/tehillim-tracker/internal/database"
	"github.com/zapponejosh/tehillim-tracker/internal/logger"
	"github.com/zapponejosh/tehillim-tracker/internal/schedule"
	"github.com/zapponejosh/tehillim-tracker/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	store := database.NewStateStore(db, log)

	// Offline mode passes a nil remote so Resilient goes straight to the
	// cache and the local calendar.
	var remoteOracle calendar.Oracle
	var remoteContent content.Provider
	if !cfg.Offline {
		remoteOracle = calendar.NewHebcalClient(cfg.HebcalURL)
		remoteContent = content.NewSefariaClient(cfg.ContentURL)
	}
	oracle := calendar.NewResilient(remoteOracle, store, cfg.OracleTimeout, log)

	static, err := content.NewStatic()
	if err != nil {
		return fmt.Errorf("load bundled chapters: %w", err)
	}
	provider := content.NewResilient(remoteContent, store, static, cfg.ContentTimeout, log)

	today := func() calendar.Day { return calendar.DayOf(cfg.Now()) }

	engine := tracker.NewEngine(store, oracle, log)
	if err := start(ctx, cfg, db, engine, today()); err != nil {
		return err
	}

	app := &cli.App{
		Engine:  engine,
		Store:   store,
		Oracle:  oracle,
		Content: provider,
		DB:      db,
		Today:   today,
		Serve: func(ctx context.Context) error {
			handlers := api.NewHandlers(engine, oracle, provider, db, today, log)
			return serve(ctx, cfg, api.SetupRoutes(handlers, log), log)
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// start loads the ledger. On first run, with nothing persisted yet, the
// configured default scheme becomes the active cycle.
func start(ctx context.Context, cfg *config.Config, db *database.DB, engine *tracker.Engine, today calendar.Day) error {
	_, err := db.GetState(ctx, database.LedgerKey)
	firstRun := database.IsNotFound(err)

	if err := engine.Start(ctx, today); err != nil {
		return err
	}

	if firstRun {
		if _, err := engine.SetScheme(ctx, schedule.Kind(cfg.DefaultScheme)); err != nil {
			return fmt.Errorf("apply default scheme: %w", err)
		}
	}
	return nil
}

// serve runs the HTTP API until ctx is cancelled, then drains in-flight
// requests.
func serve(ctx context.Context, cfg *config.Config, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting tehillim API",
			slog.String("env", cfg.Env),
			slog.Int("port", cfg.Port),
			slog.Bool("offline", cfg.Offline),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
