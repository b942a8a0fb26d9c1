package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/estimo/internal/access"
	"github.com/alexanderramin/estimo/internal/cli"
	"github.com/alexanderramin/estimo/internal/config"
	"github.com/alexanderramin/estimo/internal/db"
	"github.com/alexanderramin/estimo/internal/metrics"
	"github.com/alexanderramin/estimo/internal/repository"
	"github.com/alexanderramin/estimo/internal/server"
	"github.com/alexanderramin/estimo/internal/service"
	"github.com/alexanderramin/estimo/internal/source"
	"github.com/mattn/go-isatty"
)

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

	// Logs go to stderr; the CLI owns stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	published, err := source.Open(context.Background(), cfg.Published, cfg.SourceOptions())
	if err != nil {
		return fmt.Errorf("opening published source: %w", err)
	}

	drafts := repository.NewSQLiteDraftRepo(database)
	m := metrics.New()

	observers := []service.UseCaseObserver{m}
	if cfg.LogCalls {
		observers = append(observers, service.NewLogUseCaseObserver(logger))
	}

	resolver := source.NewResolver(published,
		source.WithDrafts(drafts),
		source.WithObserver(m),
		source.WithLogger(logger),
	)
	var verifier access.PasscodeVerifier = access.StaticPasscode(cfg.AdminKey)

	app := &cli.App{
		NewSession: func(sc service.SessionConfig) *service.EstimateSession {
			sc.Verifier = verifier
			sc.BaseURL = cfg.BaseURL
			return service.NewEstimateSession(resolver, drafts, sc, observers...)
		},
		Defaults: cfg.Pricing(),
		Serve: func(ctx context.Context) error {
			// Device drafts never leave this machine, so the server resolves
			// link drafts and the published dataset only.
			srv := server.New(server.Config{
				Resolver: source.NewResolver(published,
					source.WithObserver(m),
					source.WithLogger(logger),
				),
				Pricing:   cfg.Pricing(),
				BaseURL:   cfg.BaseURL,
				Metrics:   m.Handler(),
				Logger:    logger,
				Observers: observers,
			})
			return srv.Serve(ctx, cfg.Listen)
		},
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
