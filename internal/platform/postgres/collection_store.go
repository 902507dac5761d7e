package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/platform/logger"
	"github.com/halvard/wordvault-api/internal/store"
)

// PostgresCollectionStore implements the store.CollectionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCollectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCollectionStore creates a new PostgreSQL implementation of
// the CollectionStore interface.
func NewPostgresCollectionStore(db store.DBTX, logger *slog.Logger) *PostgresCollectionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCollectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

// Ensure PostgresCollectionStore implements store.CollectionStore interface
var _ store.CollectionStore = (*PostgresCollectionStore)(nil)

// WithTx implements store.CollectionStore.WithTx
func (s *PostgresCollectionStore) WithTx(tx *sql.Tx) store.CollectionStore {
	return &PostgresCollectionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CollectionStore.Create
func (s *PostgresCollectionStore) Create(ctx context.Context, collection *domain.Collection) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := collection.Validate(); err != nil {
		log.Warn("collection validation failed during create",
			slog.String("error", err.Error()),
			slog.String("collection_id", collection.ID.String()))
		return err
	}

	query := `
		INSERT INTO collections (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		collection.ID,
		collection.UserID,
		collection.Name,
		collection.CreatedAt,
		collection.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, collection.UserID)
		}
		log.Error("failed to create collection",
			slog.String("error", err.Error()),
			slog.String("collection_id", collection.ID.String()))
		return MapError(err)
	}

	log.Info("collection created successfully",
		slog.String("collection_id", collection.ID.String()),
		slog.String("user_id", collection.UserID.String()))
	return nil
}

// GetByID implements store.CollectionStore.GetByID
// Returns store.ErrCollectionNotFound if the collection does not exist.
func (s *PostgresCollectionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM collections
		WHERE id = $1
	`

	var collection domain.Collection
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&collection.ID,
		&collection.UserID,
		&collection.Name,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("collection not found", slog.String("collection_id", id.String()))
			return nil, store.ErrCollectionNotFound
		}
		log.Error("failed to get collection by ID",
			slog.String("error", err.Error()),
			slog.String("collection_id", id.String()))
		return nil, MapError(err)
	}

	return &collection, nil
}

// AddWord implements store.CollectionStore.AddWord
// Attaching a word that is already a member is a no-op (ON CONFLICT DO
// NOTHING), so both manual addition and ingestion completion can call
// this without checking membership first.
func (s *PostgresCollectionStore) AddWord(ctx context.Context, collectionID, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO collection_words (collection_id, word_id)
		VALUES ($1, $2)
		ON CONFLICT (collection_id, word_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, collectionID, wordID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: collection %s or word %s not found",
				store.ErrInvalidEntity, collectionID, wordID)
		}
		log.Error("failed to add word to collection",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()),
			slog.String("word_id", wordID.String()))
		return MapError(err)
	}

	log.Debug("word attached to collection",
		slog.String("collection_id", collectionID.String()),
		slog.String("word_id", wordID.String()))
	return nil
}

// GetWords implements store.CollectionStore.GetWords
// Returns an empty slice for a collection with no words.
func (s *PostgresCollectionStore) GetWords(ctx context.Context, collectionID uuid.UUID) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT w.id, w.user_id, w.text, w.normalized_text, w.translation_en, w.translation_ru,
			w.part_of_speech, w.definition, w.examples, w.created_at, w.updated_at
		FROM words w
		JOIN collection_words cw ON cw.word_id = w.id
		WHERE cw.collection_id = $1
		ORDER BY w.created_at, w.id
	`

	rows, err := s.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		log.Error("failed to query collection words",
			slog.String("error", err.Error()),
			slog.String("collection_id", collectionID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	words := []*domain.Word{}
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			log.Error("failed to scan word row",
				slog.String("error", err.Error()))
			return nil, err
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return words, nil
}
