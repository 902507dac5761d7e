package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/halvard/wordvault-api/internal/domain"
)

// IngestionJobStore defines the interface for ingestion job persistence.
// A job row is a single aggregate: every state transition loads the whole
// record, mutates it in memory through domain methods, and writes it back
// inside a transaction so concurrent completions never lose updates.
type IngestionJobStore interface {
	// Create saves a new ingestion job with all its sub-tasks.
	Create(ctx context.Context, job *domain.IngestionJob) error

	// GetByID retrieves a job by its unique ID.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error)

	// Update writes the whole job record, sub-tasks included.
	// Returns ErrJobNotFound if the job does not exist.
	Update(ctx context.Context, job *domain.IngestionJob) error

	// FindOpenJobs returns all jobs that have not yet completed, ordered
	// by creation time then ID so sweep behavior is deterministic.
	FindOpenJobs(ctx context.Context) ([]*domain.IngestionJob, error)

	// WithTx returns a new IngestionJobStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) IngestionJobStore
}
