package task

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvard/wordvault-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSweeperJob(t *testing.T, wordCount int) *domain.IngestionJob {
	t.Helper()
	words := make([]string, wordCount)
	for i := range words {
		words[i] = "word" + string(rune('a'+i))
	}
	job, err := domain.NewIngestionJob(uuid.New(), uuid.New(), words)
	require.NoError(t, err)
	return job
}

func newTestSweeper(
	jobs *MockIngestionJobStore,
	submitter *recordingSubmitter,
	factory *stubFactory,
	cfg SweeperConfig,
) *IngestionSweeper {
	return NewIngestionSweeper(jobs, stubTxRunner{}, submitter, factory, cfg, discardLogger())
}

func TestSweepDispatchesPendingSubTasks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	job := newSweeperJob(t, 3)
	jobs := new(MockIngestionJobStore)
	submitter := &recordingSubmitter{}
	factory := &stubFactory{}
	sweeper := newTestSweeper(jobs, submitter, factory, DefaultSweeperConfig())

	jobs.On("FindOpenJobs", ctx).Return([]*domain.IngestionJob{job}, nil)
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	jobs.On("Update", ctx, job).Return(nil)

	dispatched := sweeper.Sweep(ctx, now)
	assert.Equal(t, 3, dispatched)
	assert.Len(t, submitter.tasks, 3)

	// The lease is written before dispatch.
	for i := range job.SubTasks {
		assert.Equal(t, domain.SubTaskStatusProcessing, job.SubTasks[i].Status)
		require.NotNil(t, job.SubTasks[i].ProcessingStartedAt)
	}
}

func TestSweepRespectsDispatchBudget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	first := newSweeperJob(t, 4)
	second := newSweeperJob(t, 4)
	jobs := new(MockIngestionJobStore)
	submitter := &recordingSubmitter{}
	factory := &stubFactory{}

	cfg := DefaultSweeperConfig()
	cfg.DispatchPerSweep = 5
	sweeper := newTestSweeper(jobs, submitter, factory, cfg)

	jobs.On("FindOpenJobs", ctx).Return([]*domain.IngestionJob{first, second}, nil)
	jobs.On("GetByID", ctx, first.ID).Return(first, nil)
	jobs.On("GetByID", ctx, second.ID).Return(second, nil)
	jobs.On("Update", ctx, first).Return(nil)
	jobs.On("Update", ctx, second).Return(nil)

	dispatched := sweeper.Sweep(ctx, now)
	assert.Equal(t, 5, dispatched)

	// The older job is drained first; the remainder of the budget goes to
	// the next job in order.
	_, firstProcessing, _, _ := first.Progress()
	secondPending, secondProcessing, _, _ := second.Progress()
	assert.Equal(t, 4, firstProcessing)
	assert.Equal(t, 1, secondProcessing)
	assert.Equal(t, 3, secondPending)
}

func TestSweepSkipsFreshLeases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	job := newSweeperJob(t, 2)
	require.NoError(t, job.MarkDispatched(job.SubTasks[0].ID, now.Add(-time.Minute)))

	jobs := new(MockIngestionJobStore)
	submitter := &recordingSubmitter{}
	factory := &stubFactory{}
	sweeper := newTestSweeper(jobs, submitter, factory, DefaultSweeperConfig())

	jobs.On("FindOpenJobs", ctx).Return([]*domain.IngestionJob{job}, nil)
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	jobs.On("Update", ctx, job).Return(nil)

	dispatched := sweeper.Sweep(ctx, now)
	assert.Equal(t, 1, dispatched)
	require.Len(t, factory.built, 1)
	assert.Equal(t, job.SubTasks[1].ID, factory.built[0].ID)
}

func TestSweepRedispatchesExpiredLeases(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	cfg := DefaultSweeperConfig()
	job := newSweeperJob(t, 1)
	require.NoError(t, job.MarkDispatched(job.SubTasks[0].ID, now.Add(-cfg.LeaseTimeout-time.Second)))

	jobs := new(MockIngestionJobStore)
	submitter := &recordingSubmitter{}
	factory := &stubFactory{}
	sweeper := newTestSweeper(jobs, submitter, factory, cfg)

	jobs.On("FindOpenJobs", ctx).Return([]*domain.IngestionJob{job}, nil)
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	jobs.On("Update", ctx, job).Return(nil)

	dispatched := sweeper.Sweep(ctx, now)
	assert.Equal(t, 1, dispatched)

	// The lease clock restarts, so an immediate second sweep dispatches
	// nothing.
	assert.Equal(t, 0, sweeper.Sweep(ctx, now))
}

func TestSweepIsolatesPerJobFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	broken := newSweeperJob(t, 2)
	healthy := newSweeperJob(t, 2)

	jobs := new(MockIngestionJobStore)
	submitter := &recordingSubmitter{}
	factory := &stubFactory{}
	sweeper := newTestSweeper(jobs, submitter, factory, DefaultSweeperConfig())

	jobs.On("FindOpenJobs", ctx).Return([]*domain.IngestionJob{broken, healthy}, nil)
	jobs.On("GetByID", ctx, broken.ID).Return(nil, assert.AnError)
	jobs.On("GetByID", ctx, healthy.ID).Return(healthy, nil)
	jobs.On("Update", ctx, healthy).Return(nil)

	// The failing job is logged and skipped; the healthy one still gets
	// its dispatches.
	dispatched := sweeper.Sweep(ctx, now)
	assert.Equal(t, 2, dispatched)
}

func TestSweepScanFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	jobs := new(MockIngestionJobStore)
	submitter := &recordingSubmitter{}
	factory := &stubFactory{}
	sweeper := newTestSweeper(jobs, submitter, factory, DefaultSweeperConfig())

	jobs.On("FindOpenJobs", ctx).Return(nil, assert.AnError)

	assert.Equal(t, 0, sweeper.Sweep(ctx, time.Now().UTC()))
	assert.Empty(t, submitter.tasks)
}

func TestSweepSubmitFailureKeepsLease(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Now().UTC()

	job := newSweeperJob(t, 1)
	jobs := new(MockIngestionJobStore)
	submitter := &recordingSubmitter{err: assert.AnError}
	factory := &stubFactory{}
	sweeper := newTestSweeper(jobs, submitter, factory, DefaultSweeperConfig())

	jobs.On("FindOpenJobs", ctx).Return([]*domain.IngestionJob{job}, nil)
	jobs.On("GetByID", ctx, job.ID).Return(job, nil)
	jobs.On("Update", ctx, job).Return(nil)

	dispatched := sweeper.Sweep(ctx, now)
	assert.Equal(t, 0, dispatched)

	// The lease stands even though the submit failed; expiry will make the
	// sub-task eligible again.
	assert.Equal(t, domain.SubTaskStatusProcessing, job.SubTasks[0].Status)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	jobs := new(MockIngestionJobStore)
	cfg := DefaultSweeperConfig()
	cfg.Interval = time.Hour // never ticks during the test
	sweeper := newTestSweeper(jobs, &recordingSubmitter{}, &stubFactory{}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancellation")
	}
}
