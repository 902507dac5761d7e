package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/events"
	"github.com/halvard/wordvault-api/internal/store"
)

// StreakEventPayload is the payload carried by a streak update event.
type StreakEventPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// StreakEventHandler turns streak update events emitted by the practice
// service into StreakUpdateTasks on the runner. Keeping the service on the
// events side and the task construction here avoids a dependency from
// services onto the task machinery.
type StreakEventHandler struct {
	users     store.UserStore
	tx        store.TxRunner
	submitter Submitter
	logger    *slog.Logger
}

var _ events.EventHandler = (*StreakEventHandler)(nil)

// NewStreakEventHandler creates a new handler.
func NewStreakEventHandler(
	users store.UserStore,
	tx store.TxRunner,
	submitter Submitter,
	logger *slog.Logger,
) *StreakEventHandler {
	return &StreakEventHandler{
		users:     users,
		tx:        tx,
		submitter: submitter,
		logger:    logger.With("component", "streak_event_handler"),
	}
}

// HandleEvent processes streak update events; events of other types are
// ignored so multiple handlers can share one emitter.
func (h *StreakEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != TaskTypeStreakUpdate {
		return nil
	}

	var payload StreakEventPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal streak event payload",
			"error", err,
			"event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	task, err := NewStreakUpdateTask(payload.UserID, payload.CompletedAt, h.users, h.tx, h.logger)
	if err != nil {
		h.logger.Error("failed to create streak update task",
			"error", err,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.submitter.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit streak update task",
			"error", err,
			"task_id", task.ID(),
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Debug("streak update task submitted",
		"task_id", task.ID(),
		"event_id", event.ID)
	return nil
}
