package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/halvard/wordvault-api/internal/domain"
)

// WordStore defines the interface for word data persistence.
type WordStore interface {
	// Create saves a new word to the store.
	// Returns ErrDuplicate if the user already has a word with the same
	// normalized text.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// GetByNormalizedText retrieves a user's word by its normalized text.
	// This is the indexed lookup behind the ingestion duplicate fast path.
	// Returns ErrWordNotFound if no such word exists.
	GetByNormalizedText(ctx context.Context, userID uuid.UUID, normalizedText string) (*domain.Word, error)

	// Update saves changes to an existing word.
	// Returns ErrWordNotFound if the word does not exist.
	Update(ctx context.Context, word *domain.Word) error

	// WithTx returns a new WordStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) WordStore
}
