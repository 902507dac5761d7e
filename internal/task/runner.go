package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	// Together with the sweeper's per-sweep dispatch cap this bounds the
	// concurrent load placed on the enrichment service.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 4,
		QueueSize:   100,
	}
}

// Runner manages background task processing with a fixed pool of workers
// consuming a buffered queue.
type Runner struct {
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

var _ Submitter = (*Runner)(nil)

// NewRunner creates a new Runner.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger,
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit adds a new task to the queue.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	select {
	case r.taskChan <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start launches the worker pool.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop gracefully shuts down the runner, waiting for in-flight tasks.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.taskChan)
}

// worker processes tasks from the queue.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-r.taskChan:
			if !ok {
				return
			}
			r.processTask(task, id)
		}
	}
}

// processTask handles execution of a single task.
func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	logger.Info("processing task")

	if err := task.Execute(context.Background()); err != nil {
		logger.Error("task execution failed", "error", err)
		r.errHandler(task, err)
		return
	}

	logger.Info("task completed successfully")
}
