package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/platform/logger"
	"github.com/halvard/wordvault-api/internal/store"
)

// PostgresIngestionJobStore implements the store.IngestionJobStore
// interface using a PostgreSQL database as the storage backend. The
// sub-task list is serialized to a JSONB column so each job row is one
// aggregate and every transition is a whole-record write.
type PostgresIngestionJobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresIngestionJobStore creates a new PostgreSQL implementation of
// the IngestionJobStore interface.
func NewPostgresIngestionJobStore(db store.DBTX, logger *slog.Logger) *PostgresIngestionJobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresIngestionJobStore{
		db:     db,
		logger: logger.With(slog.String("component", "ingestion_job_store")),
	}
}

// Ensure PostgresIngestionJobStore implements store.IngestionJobStore interface
var _ store.IngestionJobStore = (*PostgresIngestionJobStore)(nil)

// WithTx implements store.IngestionJobStore.WithTx
func (s *PostgresIngestionJobStore) WithTx(tx *sql.Tx) store.IngestionJobStore {
	return &PostgresIngestionJobStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.IngestionJobStore.Create
func (s *PostgresIngestionJobStore) Create(ctx context.Context, job *domain.IngestionJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := job.Validate(); err != nil {
		log.Warn("ingestion job validation failed during create",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return err
	}

	subTasks, err := json.Marshal(job.SubTasks)
	if err != nil {
		return fmt.Errorf("failed to marshal sub-tasks: %w", err)
	}

	query := `
		INSERT INTO ingestion_jobs (id, user_id, collection_id, status, sub_tasks, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		job.ID,
		job.UserID,
		job.CollectionID,
		job.Status,
		subTasks,
		job.CreatedAt,
		job.CompletedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user or collection for job %s not found",
				store.ErrInvalidEntity, job.ID)
		}
		log.Error("failed to create ingestion job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return MapError(err)
	}

	log.Info("ingestion job created successfully",
		slog.String("job_id", job.ID.String()),
		slog.String("collection_id", job.CollectionID.String()),
		slog.Int("sub_task_count", len(job.SubTasks)))
	return nil
}

// GetByID implements store.IngestionJobStore.GetByID
// Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresIngestionJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.IngestionJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, collection_id, status, sub_tasks, created_at, completed_at
		FROM ingestion_jobs
		WHERE id = $1
	`

	job, err := scanIngestionJob(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("ingestion job not found", slog.String("job_id", id.String()))
			return nil, store.ErrJobNotFound
		}
		log.Error("failed to get ingestion job by ID",
			slog.String("error", err.Error()),
			slog.String("job_id", id.String()))
		return nil, MapError(err)
	}

	return job, nil
}

// Update implements store.IngestionJobStore.Update
// The whole record is written back, sub-tasks included.
// Returns store.ErrJobNotFound if the job does not exist.
func (s *PostgresIngestionJobStore) Update(ctx context.Context, job *domain.IngestionJob) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	subTasks, err := json.Marshal(job.SubTasks)
	if err != nil {
		return fmt.Errorf("failed to marshal sub-tasks: %w", err)
	}

	query := `
		UPDATE ingestion_jobs
		SET status = $1, sub_tasks = $2, completed_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		job.Status,
		subTasks,
		job.CompletedAt,
		job.ID,
	)

	if err != nil {
		log.Error("failed to update ingestion job",
			slog.String("error", err.Error()),
			slog.String("job_id", job.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrJobNotFound); err != nil {
		log.Debug("ingestion job not found for update",
			slog.String("job_id", job.ID.String()))
		return err
	}

	log.Debug("ingestion job updated successfully",
		slog.String("job_id", job.ID.String()),
		slog.String("status", string(job.Status)))
	return nil
}

// FindOpenJobs implements store.IngestionJobStore.FindOpenJobs
// Jobs are ordered by creation time then ID so the sweeper's dispatch
// order is deterministic.
func (s *PostgresIngestionJobStore) FindOpenJobs(ctx context.Context) ([]*domain.IngestionJob, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, collection_id, status, sub_tasks, created_at, completed_at
		FROM ingestion_jobs
		WHERE status = $1
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, domain.IngestionJobStatusPending)
	if err != nil {
		log.Error("failed to query open ingestion jobs",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	jobs := []*domain.IngestionJob{}
	for rows.Next() {
		job, err := scanIngestionJob(rows)
		if err != nil {
			log.Error("failed to scan ingestion job row",
				slog.String("error", err.Error()))
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return jobs, nil
}

// scanIngestionJob reads one job row, decoding the JSONB sub-task column.
func scanIngestionJob(row rowScanner) (*domain.IngestionJob, error) {
	var job domain.IngestionJob
	var status string
	var subTasks []byte

	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.CollectionID,
		&status,
		&subTasks,
		&job.CreatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = domain.IngestionJobStatus(status)
	if err := json.Unmarshal(subTasks, &job.SubTasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sub-tasks: %w", err)
	}
	return &job, nil
}
