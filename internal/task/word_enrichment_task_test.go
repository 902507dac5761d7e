package task

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/enrichment"
	"github.com/halvard/wordvault-api/internal/store"
)

func newEnrichmentFixture(t *testing.T, word string) (*domain.IngestionJob, domain.SubTask) {
	t.Helper()
	job, err := domain.NewIngestionJob(uuid.New(), uuid.New(), []string{word})
	require.NoError(t, err)
	return job, job.SubTasks[0]
}

func TestExecuteDuplicateFastPath(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	job, subTask := newEnrichmentFixture(t, "Haus")

	existing := &domain.Word{ID: uuid.New(), UserID: job.UserID, NormalizedText: "haus"}

	words := new(MockWordStore)
	enricher := new(MockEnricher)
	completer := &recordingCompleter{}

	words.On("GetByNormalizedText", ctx, job.UserID, "haus").Return(existing, nil)

	task, err := NewWordEnrichmentTask(job, subTask, words, enricher, completer, discardLogger())
	require.NoError(t, err)
	require.NoError(t, task.Execute(ctx))

	// A known word resolves without touching the enrichment service.
	enricher.AssertNotCalled(t, "Enrich", mock.Anything, mock.Anything)
	require.Len(t, completer.calls, 1)
	assert.Equal(t, job.ID, completer.calls[0].jobID)
	assert.Equal(t, subTask.ID, completer.calls[0].subTaskID)
	require.NotNil(t, completer.calls[0].resultWordID)
	assert.Equal(t, existing.ID, *completer.calls[0].resultWordID)
}

func TestExecuteEnrichesAndSavesNewWord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	job, subTask := newEnrichmentFixture(t, "Haus")

	words := new(MockWordStore)
	enricher := new(MockEnricher)
	completer := &recordingCompleter{}

	words.On("GetByNormalizedText", ctx, job.UserID, "haus").Return(nil, store.ErrWordNotFound)
	enricher.On("Enrich", ctx, "Haus").Return(&enrichment.WordData{
		Word:          "Haus",
		TranslationEN: "house",
		PartOfSpeech:  "noun",
	}, nil)

	var saved *domain.Word
	words.On("Create", ctx, mock.AnythingOfType("*domain.Word")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Word) }).
		Return(nil)

	task, err := NewWordEnrichmentTask(job, subTask, words, enricher, completer, discardLogger())
	require.NoError(t, err)
	require.NoError(t, task.Execute(ctx))

	require.NotNil(t, saved)
	assert.Equal(t, "house", saved.TranslationEN)
	assert.Equal(t, "noun", saved.PartOfSpeech)

	require.Len(t, completer.calls, 1)
	require.NotNil(t, completer.calls[0].resultWordID)
	assert.Equal(t, saved.ID, *completer.calls[0].resultWordID)
}

func TestExecuteInvalidWordRecordsFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	job, subTask := newEnrichmentFixture(t, "asdfgh")

	words := new(MockWordStore)
	enricher := new(MockEnricher)
	completer := &recordingCompleter{}

	words.On("GetByNormalizedText", ctx, job.UserID, "asdfgh").Return(nil, store.ErrWordNotFound)
	enricher.On("Enrich", ctx, "asdfgh").
		Return(nil, fmt.Errorf("%w: did you mean something else", enrichment.ErrInvalidWord))

	task, err := NewWordEnrichmentTask(job, subTask, words, enricher, completer, discardLogger())
	require.NoError(t, err)

	// The rejection becomes a failed sub-task, not a task error.
	require.NoError(t, task.Execute(ctx))
	require.Len(t, completer.calls, 1)
	assert.Nil(t, completer.calls[0].resultWordID)
	words.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecuteTransientFailureRecordsFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	job, subTask := newEnrichmentFixture(t, "Haus")

	words := new(MockWordStore)
	enricher := new(MockEnricher)
	completer := &recordingCompleter{}

	words.On("GetByNormalizedText", ctx, job.UserID, "haus").Return(nil, store.ErrWordNotFound)
	enricher.On("Enrich", ctx, "Haus").
		Return(nil, fmt.Errorf("%w: timeout", enrichment.ErrTransientFailure))

	task, err := NewWordEnrichmentTask(job, subTask, words, enricher, completer, discardLogger())
	require.NoError(t, err)

	require.NoError(t, task.Execute(ctx))
	require.Len(t, completer.calls, 1)
	assert.Nil(t, completer.calls[0].resultWordID)
}

func TestExecuteConcurrentInsertFallsBackToExisting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	job, subTask := newEnrichmentFixture(t, "Haus")

	winner := &domain.Word{ID: uuid.New(), UserID: job.UserID, NormalizedText: "haus"}

	words := new(MockWordStore)
	enricher := new(MockEnricher)
	completer := &recordingCompleter{}

	// Lookup misses, the insert loses a race with another job enriching
	// the same word, and the refetch resolves the winner.
	words.On("GetByNormalizedText", ctx, job.UserID, "haus").Return(nil, store.ErrWordNotFound).Once()
	enricher.On("Enrich", ctx, "Haus").Return(&enrichment.WordData{TranslationEN: "house"}, nil)
	words.On("Create", ctx, mock.AnythingOfType("*domain.Word")).Return(store.ErrDuplicate)
	words.On("GetByNormalizedText", ctx, job.UserID, "haus").Return(winner, nil).Once()

	task, err := NewWordEnrichmentTask(job, subTask, words, enricher, completer, discardLogger())
	require.NoError(t, err)
	require.NoError(t, task.Execute(ctx))

	require.Len(t, completer.calls, 1)
	require.NotNil(t, completer.calls[0].resultWordID)
	assert.Equal(t, winner.ID, *completer.calls[0].resultWordID)
}

func TestExecutePersistenceFailureFailsTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	job, subTask := newEnrichmentFixture(t, "Haus")

	words := new(MockWordStore)
	enricher := new(MockEnricher)
	completer := &recordingCompleter{}

	words.On("GetByNormalizedText", ctx, job.UserID, "haus").Return(nil, assert.AnError)

	task, err := NewWordEnrichmentTask(job, subTask, words, enricher, completer, discardLogger())
	require.NoError(t, err)

	// Store trouble fails the task and reaches no completion; the lease
	// will expire and the sweeper re-dispatches.
	require.Error(t, task.Execute(ctx))
	assert.Empty(t, completer.calls)
}

func TestNewWordEnrichmentTaskValidation(t *testing.T) {
	t.Parallel()
	job, subTask := newEnrichmentFixture(t, "Haus")

	_, err := NewWordEnrichmentTask(job, subTask, nil, new(MockEnricher), &recordingCompleter{}, discardLogger())
	assert.ErrorIs(t, err, ErrNilWordStore)

	_, err = NewWordEnrichmentTask(job, subTask, new(MockWordStore), nil, &recordingCompleter{}, discardLogger())
	assert.ErrorIs(t, err, ErrNilEnricher)

	_, err = NewWordEnrichmentTask(job, subTask, new(MockWordStore), new(MockEnricher), nil, discardLogger())
	assert.ErrorIs(t, err, ErrNilCompleter)
}
