package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTask signals on execution.
type countingTask struct {
	id   uuid.UUID
	done chan struct{}
	err  error
}

func newCountingTask(err error) *countingTask {
	return &countingTask{id: uuid.New(), done: make(chan struct{}), err: err}
}

func (t *countingTask) ID() uuid.UUID { return t.id }
func (t *countingTask) Type() string  { return "counting" }
func (t *countingTask) Execute(context.Context) error {
	close(t.done)
	return t.err
}

func waitFor(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal(msg)
	}
}

func TestRunnerProcessesSubmittedTasks(t *testing.T) {
	t.Parallel()

	runner := NewRunner(RunnerConfig{WorkerCount: 2, QueueSize: 10}, discardLogger())
	runner.Start()
	defer runner.Stop()

	first := newCountingTask(nil)
	second := newCountingTask(nil)
	require.NoError(t, runner.Submit(context.Background(), first))
	require.NoError(t, runner.Submit(context.Background(), second))

	waitFor(t, first.done, "first task never executed")
	waitFor(t, second.done, "second task never executed")
}

func TestRunnerQueueFull(t *testing.T) {
	t.Parallel()

	// Runner not started, so the queue only drains by capacity.
	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 1}, discardLogger())

	require.NoError(t, runner.Submit(context.Background(), newCountingTask(nil)))
	err := runner.Submit(context.Background(), newCountingTask(nil))
	assert.Error(t, err)
}

func TestRunnerErrorHandler(t *testing.T) {
	t.Parallel()

	runner := NewRunner(RunnerConfig{WorkerCount: 1, QueueSize: 5}, discardLogger())

	var (
		mu     sync.Mutex
		failed []uuid.UUID
	)
	handled := make(chan struct{})
	runner.SetErrorHandler(func(task Task, err error) {
		mu.Lock()
		failed = append(failed, task.ID())
		mu.Unlock()
		close(handled)
	})

	runner.Start()
	defer runner.Stop()

	task := newCountingTask(assert.AnError)
	require.NoError(t, runner.Submit(context.Background(), task))

	waitFor(t, handled, "error handler never invoked")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uuid.UUID{task.ID()}, failed)
}

func TestRunnerDefaultsAppliedForZeroConfig(t *testing.T) {
	t.Parallel()

	runner := NewRunner(RunnerConfig{}, discardLogger())
	assert.Equal(t, DefaultRunnerConfig().WorkerCount, runner.config.WorkerCount)
	assert.Equal(t, DefaultRunnerConfig().QueueSize, runner.config.QueueSize)
}
