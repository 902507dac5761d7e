package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/store"
)

// IngestionService provides bulk ingestion operations: accepting batches,
// reporting job progress, and folding enrichment outcomes back into jobs.
// It implements task.IngestionCompleter.
type IngestionService interface {
	// SubmitBatch validates and persists a new ingestion job for a batch
	// of words targeting a collection the user owns. The job starts with
	// every sub-task pending; the sweeper picks it up on its next pass.
	SubmitBatch(ctx context.Context, userID, collectionID uuid.UUID, words []string) (*domain.IngestionJob, error)

	// GetJob retrieves an ingestion job the user owns, including
	// per-sub-task statuses.
	GetJob(ctx context.Context, userID, jobID uuid.UUID) (*domain.IngestionJob, error)

	// CompleteSubTask records one enrichment outcome: a non-nil
	// resultWordID marks the sub-task added and attaches the word to the
	// job's collection; nil marks it failed. When the last sub-task turns
	// terminal the job is marked completed.
	CompleteSubTask(ctx context.Context, jobID, subTaskID uuid.UUID, resultWordID *uuid.UUID) error
}

// NewIngestionServiceError wraps an error with ingestion service context.
// Known sentinel errors pass through unwrapped.
func NewIngestionServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrJobNotFound) || errors.Is(err, ErrCollectionNotFound) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, domain.ErrEmptyBatch) || errors.Is(err, domain.ErrBatchTooLarge) {
		return err
	}
	if errors.Is(err, store.ErrJobNotFound) {
		return ErrJobNotFound
	}
	return &ServiceError{
		Service:   "ingestion",
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// ingestionServiceImpl implements the IngestionService interface.
type ingestionServiceImpl struct {
	jobs        store.IngestionJobStore
	collections store.CollectionStore
	tx          store.TxRunner
	logger      *slog.Logger
	now         func() time.Time
}

// NewIngestionService creates a new IngestionService.
// It returns an error if any of the required dependencies are nil.
func NewIngestionService(
	jobs store.IngestionJobStore,
	collections store.CollectionStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (IngestionService, error) {
	if jobs == nil {
		return nil, &ServiceError{
			Service:   "ingestion",
			Operation: "create_service",
			Message:   "ingestion job store cannot be nil",
		}
	}
	if collections == nil {
		return nil, &ServiceError{
			Service:   "ingestion",
			Operation: "create_service",
			Message:   "collection store cannot be nil",
		}
	}
	if tx == nil {
		return nil, &ServiceError{
			Service:   "ingestion",
			Operation: "create_service",
			Message:   "transaction runner cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ingestionServiceImpl{
		jobs:        jobs,
		collections: collections,
		tx:          tx,
		logger:      logger.With("component", "ingestion_service"),
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// SubmitBatch validates and persists a new ingestion job.
func (s *ingestionServiceImpl) SubmitBatch(
	ctx context.Context,
	userID, collectionID uuid.UUID,
	words []string,
) (*domain.IngestionJob, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCollectionNotFound
		}
		return nil, NewIngestionServiceError("submit_batch", "failed to retrieve collection", err)
	}
	if collection.UserID != userID {
		return nil, ErrCollectionNotFound
	}

	job, err := domain.NewIngestionJob(userID, collectionID, words)
	if err != nil {
		return nil, NewIngestionServiceError("submit_batch", "invalid batch", err)
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		s.logger.Error("failed to create ingestion job",
			"error", err,
			"collection_id", collectionID,
			"user_id", userID)
		return nil, NewIngestionServiceError("submit_batch", "failed to save job", err)
	}

	s.logger.Info("ingestion job accepted",
		"job_id", job.ID,
		"collection_id", collectionID,
		"user_id", userID,
		"word_count", len(job.SubTasks))
	return job, nil
}

// GetJob retrieves an ingestion job and verifies ownership. A job owned by
// another user is reported as not found.
func (s *ingestionServiceImpl) GetJob(
	ctx context.Context,
	userID, jobID uuid.UUID,
) (*domain.IngestionJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, NewIngestionServiceError("get_job", "failed to retrieve job", err)
	}
	if job.UserID != userID {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// CompleteSubTask records one enrichment outcome inside a transaction:
// reload the job, transition the sub-task, attach the word on success, and
// write the whole record back. The all-terminal check runs on every
// completion so whichever outcome arrives last closes the job.
func (s *ingestionServiceImpl) CompleteSubTask(
	ctx context.Context,
	jobID, subTaskID uuid.UUID,
	resultWordID *uuid.UUID,
) error {
	return s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txJobs := s.jobs.WithTx(tx)
		txCollections := s.collections.WithTx(tx)

		job, err := txJobs.GetByID(ctx, jobID)
		if err != nil {
			return NewIngestionServiceError("complete_sub_task", "failed to reload job", err)
		}

		completedNow, err := job.CompleteSubTask(subTaskID, resultWordID, s.now())
		if err != nil {
			if errors.Is(err, domain.ErrSubTaskTerminal) {
				// A slow worker finished after the lease expired and a
				// re-dispatched run already resolved the sub-task. First
				// writer wins; drop the late outcome.
				s.logger.Info("ignoring late completion for terminal sub-task",
					"job_id", jobID,
					"sub_task_id", subTaskID)
				return nil
			}
			return NewIngestionServiceError("complete_sub_task", "failed to transition sub-task", err)
		}

		if resultWordID != nil {
			if err := txCollections.AddWord(ctx, job.CollectionID, *resultWordID); err != nil {
				return NewIngestionServiceError(
					"complete_sub_task",
					"failed to attach word to collection",
					err,
				)
			}
		}

		if err := txJobs.Update(ctx, job); err != nil {
			return NewIngestionServiceError("complete_sub_task", "failed to save job", err)
		}

		if completedNow {
			s.logger.Info("ingestion job completed",
				"job_id", jobID,
				"user_id", job.UserID)
		}
		return nil
	})
}
