package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func setupGoose() error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// migrateUp applies all pending migrations.
func migrateUp(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Info("database schema up to date", slog.Int64("version", version))
	return nil
}

// runMigrationCommand executes a one-shot migration command and
// returns, used by the -migrate flag.
func runMigrationCommand(ctx context.Context, db *sql.DB, command string, log *slog.Logger) error {
	if err := setupGoose(); err != nil {
		return err
	}

	switch command {
	case "up":
		return migrateUp(ctx, db, log)
	case "down":
		if err := goose.DownContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		log.Info("rolled back one migration")
		return nil
	case "status":
		if err := goose.StatusContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("failed to report migration status: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown migration command %q (want up, down or status)", command)
	}
}
