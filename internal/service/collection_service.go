package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/store"
)

// WordInput carries the caller-supplied fields for a manual word addition.
// Everything beyond the text is optional; manually added words may carry no
// enrichment data at all.
type WordInput struct {
	Text          string
	TranslationEN string
	TranslationRU string
	PartOfSpeech  string
	Definition    string
	Examples      []string
}

// CollectionService provides collection and manual word operations.
type CollectionService interface {
	// CreateCollection creates a new, empty collection for the user.
	CreateCollection(ctx context.Context, userID uuid.UUID, name string) (*domain.Collection, error)

	// GetCollection retrieves a collection the user owns.
	GetCollection(ctx context.Context, userID, collectionID uuid.UUID) (*domain.Collection, error)

	// AddWord adds a single word to a collection the user owns. If the user
	// already has a word with the same normalized text, that word is
	// attached instead of creating a duplicate. Attaching is idempotent.
	AddWord(ctx context.Context, userID, collectionID uuid.UUID, input WordInput) (*domain.Word, error)
}

// NewCollectionServiceError wraps an error with collection service context.
// Known sentinel errors pass through unwrapped.
func NewCollectionServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCollectionNotFound) || errors.Is(err, ErrNotOwned) ||
		errors.Is(err, domain.ErrValidation) {
		return err
	}
	if errors.Is(err, store.ErrCollectionNotFound) {
		return ErrCollectionNotFound
	}
	return &ServiceError{
		Service:   "collection",
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// collectionServiceImpl implements the CollectionService interface.
type collectionServiceImpl struct {
	collections store.CollectionStore
	words       store.WordStore
	tx          store.TxRunner
	logger      *slog.Logger
}

// NewCollectionService creates a new CollectionService.
// It returns an error if any of the required dependencies are nil.
func NewCollectionService(
	collections store.CollectionStore,
	words store.WordStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (CollectionService, error) {
	if collections == nil {
		return nil, &ServiceError{
			Service:   "collection",
			Operation: "create_service",
			Message:   "collection store cannot be nil",
		}
	}
	if words == nil {
		return nil, &ServiceError{
			Service:   "collection",
			Operation: "create_service",
			Message:   "word store cannot be nil",
		}
	}
	if tx == nil {
		return nil, &ServiceError{
			Service:   "collection",
			Operation: "create_service",
			Message:   "transaction runner cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &collectionServiceImpl{
		collections: collections,
		words:       words,
		tx:          tx,
		logger:      logger.With("component", "collection_service"),
	}, nil
}

// CreateCollection creates a new, empty collection for the user.
func (s *collectionServiceImpl) CreateCollection(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Collection, error) {
	collection, err := domain.NewCollection(userID, name)
	if err != nil {
		return nil, NewCollectionServiceError("create_collection", "invalid collection", err)
	}

	if err := s.collections.Create(ctx, collection); err != nil {
		s.logger.Error("failed to create collection",
			"error", err,
			"user_id", userID)
		return nil, NewCollectionServiceError("create_collection", "failed to save collection", err)
	}

	s.logger.Info("collection created",
		"collection_id", collection.ID,
		"user_id", userID)
	return collection, nil
}

// GetCollection retrieves a collection and verifies ownership. A
// collection owned by another user is reported as not found.
func (s *collectionServiceImpl) GetCollection(
	ctx context.Context,
	userID, collectionID uuid.UUID,
) (*domain.Collection, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, NewCollectionServiceError("get_collection", "failed to retrieve collection", err)
	}
	if collection.UserID != userID {
		return nil, ErrCollectionNotFound
	}
	return collection, nil
}

// AddWord adds a single word to a collection the user owns.
func (s *collectionServiceImpl) AddWord(
	ctx context.Context,
	userID, collectionID uuid.UUID,
	input WordInput,
) (*domain.Word, error) {
	if _, err := s.GetCollection(ctx, userID, collectionID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Text) == "" {
		return nil, domain.ErrEmptyWordText
	}

	var word *domain.Word
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txWords := s.words.WithTx(tx)
		txCollections := s.collections.WithTx(tx)

		var err error
		word, err = s.findOrCreateWord(ctx, txWords, userID, input)
		if err != nil {
			return err
		}

		if err := txCollections.AddWord(ctx, collectionID, word.ID); err != nil {
			return NewCollectionServiceError("add_word", "failed to attach word to collection", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to add word",
			"error", err,
			"collection_id", collectionID,
			"user_id", userID)
		return nil, err
	}

	s.logger.Info("word added to collection",
		"word_id", word.ID,
		"collection_id", collectionID,
		"user_id", userID)
	return word, nil
}

// findOrCreateWord returns the user's existing word for the normalized
// text, or creates a new one from the input. A concurrent create racing on
// the (user_id, normalized_text) unique constraint falls back to a refetch.
func (s *collectionServiceImpl) findOrCreateWord(
	ctx context.Context,
	words store.WordStore,
	userID uuid.UUID,
	input WordInput,
) (*domain.Word, error) {
	normalized := domain.NormalizeWordText(input.Text)

	existing, err := words.GetByNormalizedText(ctx, userID, normalized)
	if err == nil {
		return existing, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, NewCollectionServiceError("add_word", "failed to look up word", err)
	}

	word, err := domain.NewWord(userID, input.Text)
	if err != nil {
		return nil, err
	}
	word.TranslationEN = input.TranslationEN
	word.TranslationRU = input.TranslationRU
	word.PartOfSpeech = input.PartOfSpeech
	word.Definition = input.Definition
	word.Examples = input.Examples

	if err := words.Create(ctx, word); err != nil {
		if store.IsDuplicateError(err) {
			return words.GetByNormalizedText(ctx, userID, normalized)
		}
		return nil, NewCollectionServiceError("add_word", "failed to save word", err)
	}
	return word, nil
}
