package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/halvard/wordvault-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction. The
// transaction is committed if the function returns nil, or rolled back if
// it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// TxRunner is the seam through which services run transactional work, so
// tests can substitute an implementation that skips the real database.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// SQLTxRunner is the production TxRunner backed by a *sql.DB.
type SQLTxRunner struct {
	DB *sql.DB
}

// RunInTransaction implements TxRunner.
func (r SQLTxRunner) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, r.DB, fn)
}

// RunInTransaction executes the given function within a database
// transaction, handling rollback on error or panic. All aggregate
// read-modify-write sequences (job sub-task transitions, session
// answer/advance) go through this helper.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", rbErr.Error()),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	return nil
}
