package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/halvard/wordvault-api/internal/domain"
)

// CollectionStore defines the interface for collection data persistence,
// including word membership.
type CollectionStore interface {
	// Create saves a new collection to the store.
	Create(ctx context.Context, collection *domain.Collection) error

	// GetByID retrieves a collection by its unique ID.
	// Returns ErrCollectionNotFound if the collection does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error)

	// AddWord attaches a word to a collection. Attaching a word that is
	// already a member is a no-op; both manual addition and ingestion
	// completion go through this one operation.
	AddWord(ctx context.Context, collectionID, wordID uuid.UUID) error

	// GetWords returns all words belonging to a collection.
	GetWords(ctx context.Context, collectionID uuid.UUID) ([]*domain.Word, error)

	// WithTx returns a new CollectionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CollectionStore
}
