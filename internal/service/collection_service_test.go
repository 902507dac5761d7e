package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/store"
)

func newTestCollectionService(t *testing.T, collections *MockCollectionStore, words *MockWordStore) CollectionService {
	t.Helper()
	svc, err := NewCollectionService(collections, words, stubTxRunner{}, discardLogger())
	require.NoError(t, err)
	return svc
}

func TestCreateCollection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()

	collections := new(MockCollectionStore)
	words := new(MockWordStore)
	svc := newTestCollectionService(t, collections, words)

	collections.On("Create", ctx, mock.AnythingOfType("*domain.Collection")).Return(nil)

	collection, err := svc.CreateCollection(ctx, userID, "  Irregular verbs ")
	require.NoError(t, err)
	assert.Equal(t, "Irregular verbs", collection.Name)
	assert.Equal(t, userID, collection.UserID)

	_, err = svc.CreateCollection(ctx, userID, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyCollectionName)
}

func TestGetCollectionOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	owner := uuid.New()
	collectionID := uuid.New()

	collections := new(MockCollectionStore)
	words := new(MockWordStore)
	svc := newTestCollectionService(t, collections, words)

	collections.On("GetByID", ctx, collectionID).
		Return(&domain.Collection{ID: collectionID, UserID: owner, Name: "nouns"}, nil)

	got, err := svc.GetCollection(ctx, owner, collectionID)
	require.NoError(t, err)
	assert.Equal(t, collectionID, got.ID)

	_, err = svc.GetCollection(ctx, uuid.New(), collectionID)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestAddWordCreatesNewWord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()
	collectionID := uuid.New()

	collections := new(MockCollectionStore)
	words := new(MockWordStore)
	svc := newTestCollectionService(t, collections, words)

	collections.On("GetByID", ctx, collectionID).
		Return(&domain.Collection{ID: collectionID, UserID: userID, Name: "nouns"}, nil)
	words.On("GetByNormalizedText", ctx, userID, "haus").Return(nil, store.ErrWordNotFound)
	words.On("Create", ctx, mock.AnythingOfType("*domain.Word")).Return(nil)
	collections.On("AddWord", ctx, collectionID, mock.AnythingOfType("uuid.UUID")).Return(nil)

	word, err := svc.AddWord(ctx, userID, collectionID, WordInput{
		Text:          " Haus ",
		TranslationEN: "house",
		PartOfSpeech:  "noun",
	})
	require.NoError(t, err)
	assert.Equal(t, "Haus", word.Text)
	assert.Equal(t, "haus", word.NormalizedText)
	assert.Equal(t, "house", word.TranslationEN)
	words.AssertExpectations(t)
	collections.AssertExpectations(t)
}

func TestAddWordReusesExistingWord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()
	collectionID := uuid.New()

	existing := &domain.Word{
		ID:             uuid.New(),
		UserID:         userID,
		Text:           "Haus",
		NormalizedText: "haus",
		TranslationEN:  "house",
	}

	collections := new(MockCollectionStore)
	words := new(MockWordStore)
	svc := newTestCollectionService(t, collections, words)

	collections.On("GetByID", ctx, collectionID).
		Return(&domain.Collection{ID: collectionID, UserID: userID, Name: "nouns"}, nil)
	words.On("GetByNormalizedText", ctx, userID, "haus").Return(existing, nil)
	collections.On("AddWord", ctx, collectionID, existing.ID).Return(nil)

	word, err := svc.AddWord(ctx, userID, collectionID, WordInput{Text: "HAUS"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, word.ID)
	words.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddWordConcurrentInsertFallsBackToRefetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()
	collectionID := uuid.New()

	winner := &domain.Word{
		ID:             uuid.New(),
		UserID:         userID,
		Text:           "Haus",
		NormalizedText: "haus",
	}

	collections := new(MockCollectionStore)
	words := new(MockWordStore)
	svc := newTestCollectionService(t, collections, words)

	collections.On("GetByID", ctx, collectionID).
		Return(&domain.Collection{ID: collectionID, UserID: userID, Name: "nouns"}, nil)
	// First lookup misses, the insert then loses the race, and the
	// refetch resolves to the winner's row.
	words.On("GetByNormalizedText", ctx, userID, "haus").Return(nil, store.ErrWordNotFound).Once()
	words.On("Create", ctx, mock.AnythingOfType("*domain.Word")).Return(store.ErrDuplicate)
	words.On("GetByNormalizedText", ctx, userID, "haus").Return(winner, nil).Once()
	collections.On("AddWord", ctx, collectionID, winner.ID).Return(nil)

	word, err := svc.AddWord(ctx, userID, collectionID, WordInput{Text: "Haus"})
	require.NoError(t, err)
	assert.Equal(t, winner.ID, word.ID)
}

func TestAddWordValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	userID := uuid.New()
	collectionID := uuid.New()

	collections := new(MockCollectionStore)
	words := new(MockWordStore)
	svc := newTestCollectionService(t, collections, words)

	collections.On("GetByID", ctx, collectionID).
		Return(&domain.Collection{ID: collectionID, UserID: userID, Name: "nouns"}, nil)

	_, err := svc.AddWord(ctx, userID, collectionID, WordInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyWordText)
	words.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddWordForeignCollection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	collectionID := uuid.New()

	collections := new(MockCollectionStore)
	words := new(MockWordStore)
	svc := newTestCollectionService(t, collections, words)

	collections.On("GetByID", ctx, collectionID).
		Return(&domain.Collection{ID: collectionID, UserID: uuid.New(), Name: "foreign"}, nil)

	_, err := svc.AddWord(ctx, uuid.New(), collectionID, WordInput{Text: "Haus"})
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}
