package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// Registers the pgx stdlib driver under the "pgx" name.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/halvard/wordvault-api/internal/config"
	"github.com/halvard/wordvault-api/internal/platform/postgres"
	"github.com/halvard/wordvault-api/internal/store"
)

const (
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 5 * time.Minute
	dbPingTimeout     = 5 * time.Second
)

// setupDatabase opens the PostgreSQL connection pool and verifies
// connectivity before the server accepts any work.
func setupDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close database after ping failure",
				slog.String("error", closeErr.Error()))
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		slog.Int("max_open_conns", dbMaxOpenConns),
		slog.Int("max_idle_conns", dbMaxIdleConns),
	)
	return db, nil
}

// appStores bundles the store implementations built over one database
// handle.
type appStores struct {
	users       store.UserStore
	words       store.WordStore
	collections store.CollectionStore
	jobs        store.IngestionJobStore
	sessions    store.PracticeSessionStore
}

func newStores(db *sql.DB, log *slog.Logger) appStores {
	return appStores{
		users:       postgres.NewPostgresUserStore(db, log),
		words:       postgres.NewPostgresWordStore(db, log),
		collections: postgres.NewPostgresCollectionStore(db, log),
		jobs:        postgres.NewPostgresIngestionJobStore(db, log),
		sessions:    postgres.NewPostgresPracticeSessionStore(db, log),
	}
}
