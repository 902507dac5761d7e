package task

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/store"
)

// SweeperConfig holds the ingestion scheduler tunables.
type SweeperConfig struct {
	// Interval is the sweep cadence. It affects latency, not correctness.
	Interval time.Duration

	// LeaseTimeout is how long a dispatched sub-task may stay in
	// processing before it is considered abandoned and becomes eligible
	// for re-dispatch (at-least-once processing).
	LeaseTimeout time.Duration

	// DispatchPerSweep caps dispatches per sweep across all jobs
	// combined, bounding concurrent load on the enrichment service.
	DispatchPerSweep int
}

// DefaultSweeperConfig returns a SweeperConfig with the standard tunables.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:         15 * time.Second,
		LeaseTimeout:     5 * time.Minute,
		DispatchPerSweep: 25,
	}
}

// EnrichmentTaskFactory builds the enrichment task for one dispatched
// sub-task. The sweeper depends on the factory rather than on the task's
// dependencies directly.
type EnrichmentTaskFactory interface {
	NewEnrichmentTask(job *domain.IngestionJob, subTask domain.SubTask) (Task, error)
}

// IngestionSweeper converts ingestion job backlog into bounded concurrent
// enrichment work. Each sweep scans open jobs in deterministic order,
// leases eligible sub-tasks (pending, or processing past the lease
// timeout) up to the global cap, and hands them to the runner. The lease
// is written transactionally before a task ever runs, so a concurrent
// sweep skips freshly leased sub-tasks and a completion can never arrive
// before its lease is recorded.
type IngestionSweeper struct {
	jobs      store.IngestionJobStore
	tx        store.TxRunner
	submitter Submitter
	factory   EnrichmentTaskFactory
	config    SweeperConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewIngestionSweeper creates a new IngestionSweeper.
func NewIngestionSweeper(
	jobs store.IngestionJobStore,
	tx store.TxRunner,
	submitter Submitter,
	factory EnrichmentTaskFactory,
	config SweeperConfig,
	logger *slog.Logger,
) *IngestionSweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultSweeperConfig().Interval
	}
	if config.LeaseTimeout <= 0 {
		config.LeaseTimeout = DefaultSweeperConfig().LeaseTimeout
	}
	if config.DispatchPerSweep <= 0 {
		config.DispatchPerSweep = DefaultSweeperConfig().DispatchPerSweep
	}

	return &IngestionSweeper{
		jobs:      jobs,
		tx:        tx,
		submitter: submitter,
		factory:   factory,
		config:    config,
		logger:    logger.With("component", "ingestion_sweeper"),
		now:       time.Now,
	}
}

// Run sweeps on the configured interval until the context is cancelled.
// Sweeps are not mutually exclusive with in-flight enrichment; a sub-task
// already processing under a fresh lease is simply not eligible.
func (s *IngestionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, s.now())
		}
	}
}

// Sweep performs one scan-and-dispatch step at the given instant and
// returns the number of sub-tasks dispatched. The dispatch budget is
// threaded explicitly through the per-job steps; per-job failures are
// isolated so the sweep itself never fails as a unit.
func (s *IngestionSweeper) Sweep(ctx context.Context, now time.Time) int {
	openJobs, err := s.jobs.FindOpenJobs(ctx)
	if err != nil {
		s.logger.Error("failed to scan open ingestion jobs", "error", err)
		return 0
	}

	dispatched := 0
	budget := s.config.DispatchPerSweep

	for _, job := range openJobs {
		if budget <= 0 {
			break
		}

		leased, err := s.leaseEligible(ctx, job.ID, now, budget)
		if err != nil {
			s.logger.Error("failed to lease sub-tasks for job",
				"job_id", job.ID,
				"error", err)
			continue
		}

		for _, d := range leased {
			task, err := s.factory.NewEnrichmentTask(d.job, d.subTask)
			if err != nil {
				s.logger.Error("failed to build enrichment task",
					"job_id", d.job.ID,
					"sub_task_id", d.subTask.ID,
					"error", err)
				continue
			}
			if err := s.submitter.Submit(ctx, task); err != nil {
				// The lease already stands; when it expires a later
				// sweep re-dispatches this sub-task.
				s.logger.Error("failed to submit enrichment task",
					"job_id", d.job.ID,
					"sub_task_id", d.subTask.ID,
					"error", err)
				continue
			}
			dispatched++
		}

		budget -= len(leased)
	}

	if dispatched > 0 {
		s.logger.Info("sweep dispatched sub-tasks",
			"dispatched", dispatched,
			"open_jobs", len(openJobs))
	}

	return dispatched
}

type leasedSubTask struct {
	job     *domain.IngestionJob
	subTask domain.SubTask
}

// leaseEligible atomically marks up to limit eligible sub-tasks of one job
// as processing. The whole job record is reloaded inside the transaction
// so concurrent completions are never overwritten.
func (s *IngestionSweeper) leaseEligible(
	ctx context.Context,
	jobID uuid.UUID,
	now time.Time,
	limit int,
) ([]leasedSubTask, error) {
	var leased []leasedSubTask

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txJobs := s.jobs.WithTx(tx)

		job, err := txJobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}

		eligible := job.EligibleSubTasks(now, s.config.LeaseTimeout)
		if len(eligible) == 0 {
			return nil
		}
		if len(eligible) > limit {
			eligible = eligible[:limit]
		}

		for _, subTaskID := range eligible {
			if err := job.MarkDispatched(subTaskID, now); err != nil {
				return err
			}
		}

		if err := txJobs.Update(ctx, job); err != nil {
			return err
		}

		for _, subTaskID := range eligible {
			for i := range job.SubTasks {
				if job.SubTasks[i].ID == subTaskID {
					leased = append(leased, leasedSubTask{job: job, subTask: job.SubTasks[i]})
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return leased, nil
}
