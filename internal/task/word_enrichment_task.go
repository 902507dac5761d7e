package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/enrichment"
	"github.com/halvard/wordvault-api/internal/store"
)

// Common errors
var (
	ErrNilWordStore = errors.New("word store cannot be nil")
	ErrNilEnricher  = errors.New("enricher cannot be nil")
	ErrNilCompleter = errors.New("ingestion completer cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
)

// IngestionCompleter folds one sub-task outcome back into its job. A nil
// resultWordID records the sub-task as failed. Implemented by the
// ingestion service.
type IngestionCompleter interface {
	CompleteSubTask(ctx context.Context, jobID, subTaskID uuid.UUID, resultWordID *uuid.UUID) error
}

// WordEnrichmentTask processes one leased sub-task: it resolves the word
// through the duplicate fast path or the enrichment gateway, then reports
// the outcome to the completion handler. Enrichment failures are recorded
// as a failed sub-task, never surfaced as a task error; only persistence
// trouble fails the task, leaving the lease to expire so a later sweep
// re-dispatches the work.
type WordEnrichmentTask struct {
	id        uuid.UUID
	jobID     uuid.UUID
	subTaskID uuid.UUID
	userID    uuid.UUID
	word      string
	words     store.WordStore
	enricher  enrichment.Enricher
	completer IngestionCompleter
	logger    *slog.Logger
}

var _ Task = (*WordEnrichmentTask)(nil)

// NewWordEnrichmentTask creates a task for one dispatched sub-task.
func NewWordEnrichmentTask(
	job *domain.IngestionJob,
	subTask domain.SubTask,
	words store.WordStore,
	enricher enrichment.Enricher,
	completer IngestionCompleter,
	logger *slog.Logger,
) (*WordEnrichmentTask, error) {
	if words == nil {
		return nil, ErrNilWordStore
	}
	if enricher == nil {
		return nil, ErrNilEnricher
	}
	if completer == nil {
		return nil, ErrNilCompleter
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &WordEnrichmentTask{
		id:        uuid.New(),
		jobID:     job.ID,
		subTaskID: subTask.ID,
		userID:    job.UserID,
		word:      subTask.Word,
		words:     words,
		enricher:  enricher,
		completer: completer,
		logger: logger.With(
			"task_type", TaskTypeWordEnrichment,
			"job_id", job.ID,
			"sub_task_id", subTask.ID,
		),
	}, nil
}

// ID returns the task's unique identifier.
func (t *WordEnrichmentTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *WordEnrichmentTask) Type() string {
	return TaskTypeWordEnrichment
}

// Execute resolves the sub-task's word and reports the outcome.
func (t *WordEnrichmentTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// Duplicate fast path: a word with identical normalized text resolves
	// without calling the enrichment service.
	normalized := domain.NormalizeWordText(t.word)
	existing, err := t.words.GetByNormalizedText(ctx, t.userID, normalized)
	if err == nil {
		t.logger.Info("word already known, skipping enrichment call", "word_id", existing.ID)
		return t.completer.CompleteSubTask(ctx, t.jobID, t.subTaskID, &existing.ID)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to check for existing word: %w", err)
	}

	data, err := t.enricher.Enrich(ctx, t.word)
	if err != nil {
		// Both rejection kinds fail the sub-task, but the logs must tell
		// them apart.
		if errors.Is(err, enrichment.ErrInvalidWord) {
			t.logger.Warn("enrichment service rejected word as invalid", "error", err)
		} else {
			t.logger.Error("transient enrichment failure", "error", err)
		}
		return t.completer.CompleteSubTask(ctx, t.jobID, t.subTaskID, nil)
	}

	wordID, err := t.saveWord(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to save enriched word: %w", err)
	}

	return t.completer.CompleteSubTask(ctx, t.jobID, t.subTaskID, &wordID)
}

// saveWord persists the enrichment result, tolerating a concurrent insert
// of the same normalized text (two jobs racing on one word).
func (t *WordEnrichmentTask) saveWord(ctx context.Context, data *enrichment.WordData) (uuid.UUID, error) {
	word, err := domain.NewWord(t.userID, t.word)
	if err != nil {
		return uuid.Nil, err
	}
	word.TranslationEN = data.TranslationEN
	word.TranslationRU = data.TranslationRU
	word.PartOfSpeech = data.PartOfSpeech
	word.Definition = data.Definition
	word.Examples = data.Examples

	if err := t.words.Create(ctx, word); err != nil {
		if store.IsDuplicateError(err) {
			existing, getErr := t.words.GetByNormalizedText(ctx, t.userID, word.NormalizedText)
			if getErr != nil {
				return uuid.Nil, getErr
			}
			return existing.ID, nil
		}
		return uuid.Nil, err
	}

	return word.ID, nil
}

// WordEnrichmentTaskFactory creates WordEnrichmentTask instances for the
// sweeper.
type WordEnrichmentTaskFactory struct {
	words     store.WordStore
	enricher  enrichment.Enricher
	completer IngestionCompleter
	logger    *slog.Logger
}

var _ EnrichmentTaskFactory = (*WordEnrichmentTaskFactory)(nil)

// NewWordEnrichmentTaskFactory creates a new factory.
func NewWordEnrichmentTaskFactory(
	words store.WordStore,
	enricher enrichment.Enricher,
	completer IngestionCompleter,
	logger *slog.Logger,
) *WordEnrichmentTaskFactory {
	return &WordEnrichmentTaskFactory{
		words:     words,
		enricher:  enricher,
		completer: completer,
		logger:    logger,
	}
}

// NewEnrichmentTask implements EnrichmentTaskFactory.
func (f *WordEnrichmentTaskFactory) NewEnrichmentTask(job *domain.IngestionJob, subTask domain.SubTask) (Task, error) {
	return NewWordEnrichmentTask(job, subTask, f.words, f.enricher, f.completer, f.logger)
}
