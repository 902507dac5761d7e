package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/store"
)

// ErrNilUserStore is returned when a streak task is built without a store.
var ErrNilUserStore = errors.New("user store cannot be nil")

// StreakUpdateTask applies one session completion to the owning user's
// practice streak. It is scheduled exactly once per session completion by
// the practice service and runs fire-and-forget on the task runner.
type StreakUpdateTask struct {
	id          uuid.UUID
	userID      uuid.UUID
	completedAt time.Time
	users       store.UserStore
	tx          store.TxRunner
	logger      *slog.Logger
}

var _ Task = (*StreakUpdateTask)(nil)

// NewStreakUpdateTask creates a streak update task for one completion.
func NewStreakUpdateTask(
	userID uuid.UUID,
	completedAt time.Time,
	users store.UserStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (*StreakUpdateTask, error) {
	if users == nil {
		return nil, ErrNilUserStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if userID == uuid.Nil {
		return nil, errors.New("user ID cannot be empty")
	}

	return &StreakUpdateTask{
		id:          uuid.New(),
		userID:      userID,
		completedAt: completedAt,
		users:       users,
		tx:          tx,
		logger:      logger.With("task_type", TaskTypeStreakUpdate, "user_id", userID),
	}, nil
}

// ID returns the task's unique identifier.
func (t *StreakUpdateTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *StreakUpdateTask) Type() string {
	return TaskTypeStreakUpdate
}

// Execute folds the completion timestamp into the user's streak inside a
// transaction (read-modify-write on the user record).
func (t *StreakUpdateTask) Execute(ctx context.Context) error {
	return t.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := t.users.WithTx(tx)

		user, err := txUsers.GetByID(ctx, t.userID)
		if err != nil {
			return fmt.Errorf("failed to load user for streak update: %w", err)
		}

		before := user.StreakCount
		user.RecordPractice(t.completedAt)

		if err := txUsers.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to save streak update: %w", err)
		}

		t.logger.Info("practice streak updated",
			"streak_before", before,
			"streak_after", user.StreakCount)
		return nil
	})
}
