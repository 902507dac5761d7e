package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/halvard/wordvault-api/internal/domain"
)

// PracticeSessionStore defines the interface for practice session
// persistence. Like ingestion jobs, a session row is one aggregate and is
// always written back whole.
type PracticeSessionStore interface {
	// Create saves a new practice session with all its questions.
	Create(ctx context.Context, session *domain.PracticeSession) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error)

	// Update writes the whole session record, questions included.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.PracticeSession) error

	// WithTx returns a new PracticeSessionStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) PracticeSessionStore
}
