// Package task contains the background processing machinery: a bounded
// worker-pool runner, the periodic ingestion sweeper that turns job
// backlog into dispatched enrichment work, and the concrete task types.
package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeWordEnrichment is one sub-task's enrichment unit of work.
	TaskTypeWordEnrichment = "word_enrichment"

	// TaskTypeStreakUpdate is the fire-and-forget streak side effect
	// scheduled on practice session completion.
	TaskTypeStreakUpdate = "streak_update"
)

// Task represents a unit of background work to be processed. Durable state
// lives in the aggregates the tasks operate on (the ingestion job owns its
// sub-task statuses and leases), so tasks themselves carry no persisted
// status; recovery of lost work is the sweeper's stale-lease job, not the
// runner's.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// Submitter is the narrow interface the sweeper and event handlers use to
// hand tasks to the runner.
type Submitter interface {
	// Submit adds a task to the processing queue. Returns an error if the
	// queue is full or closed.
	Submit(ctx context.Context, task Task) error
}
