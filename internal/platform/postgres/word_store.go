package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/platform/logger"
	"github.com/halvard/wordvault-api/internal/store"
)

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// WithTx implements store.WordStore.WithTx
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.WordStore.Create
// Returns store.ErrDuplicate if the user already has a word with the same
// normalized text.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	examples, err := json.Marshal(word.Examples)
	if err != nil {
		return fmt.Errorf("failed to marshal examples: %w", err)
	}

	query := `
		INSERT INTO words (id, user_id, text, normalized_text, translation_en, translation_ru,
			part_of_speech, definition, examples, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.UserID,
		word.Text,
		word.NormalizedText,
		word.TranslationEN,
		word.TranslationRU,
		word.PartOfSpeech,
		word.Definition,
		examples,
		word.CreatedAt,
		word.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate word during create",
				slog.String("word_id", word.ID.String()),
				slog.String("user_id", word.UserID.String()))
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		}
		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	log.Debug("word created successfully",
		slog.String("word_id", word.ID.String()),
		slog.String("user_id", word.UserID.String()))
	return nil
}

// GetByID implements store.WordStore.GetByID
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := wordSelectColumns + ` WHERE id = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_id", id.String()))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, MapError(err)
	}

	return word, nil
}

// GetByNormalizedText implements store.WordStore.GetByNormalizedText
// Returns store.ErrWordNotFound if no such word exists.
func (s *PostgresWordStore) GetByNormalizedText(
	ctx context.Context,
	userID uuid.UUID,
	normalizedText string,
) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := wordSelectColumns + ` WHERE user_id = $1 AND normalized_text = $2`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, userID, normalizedText))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by normalized text",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return word, nil
}

// Update implements store.WordStore.Update
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) Update(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		return err
	}

	examples, err := json.Marshal(word.Examples)
	if err != nil {
		return fmt.Errorf("failed to marshal examples: %w", err)
	}

	word.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE words
		SET text = $1, normalized_text = $2, translation_en = $3, translation_ru = $4,
			part_of_speech = $5, definition = $6, examples = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		word.Text,
		word.NormalizedText,
		word.TranslationEN,
		word.TranslationRU,
		word.PartOfSpeech,
		word.Definition,
		examples,
		word.UpdatedAt,
		word.ID,
	)

	if err != nil {
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrWordNotFound); err != nil {
		return err
	}

	log.Debug("word updated successfully",
		slog.String("word_id", word.ID.String()))
	return nil
}

const wordSelectColumns = `
	SELECT id, user_id, text, normalized_text, translation_en, translation_ru,
		part_of_speech, definition, examples, created_at, updated_at
	FROM words`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanWord reads one word row, decoding the JSONB examples column.
func scanWord(row rowScanner) (*domain.Word, error) {
	var word domain.Word
	var examples []byte

	err := row.Scan(
		&word.ID,
		&word.UserID,
		&word.Text,
		&word.NormalizedText,
		&word.TranslationEN,
		&word.TranslationRU,
		&word.PartOfSpeech,
		&word.Definition,
		&examples,
		&word.CreatedAt,
		&word.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(examples) > 0 {
		if err := json.Unmarshal(examples, &word.Examples); err != nil {
			return nil, fmt.Errorf("failed to unmarshal examples: %w", err)
		}
	}
	return &word, nil
}
