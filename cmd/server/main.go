// Package main is the entry point for the WordVault API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/halvard/wordvault-api/internal/config"
	"github.com/halvard/wordvault-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run migrations (up|down|status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run(migrateCmd string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database connection", slog.String("error", closeErr.Error()))
		}
	}()

	if migrateCmd != "" {
		return runMigrationCommand(ctx, db, migrateCmd, log)
	}

	// Pending migrations are applied at startup so a deploy never runs
	// against a stale schema.
	if err := migrateUp(ctx, db, log); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
