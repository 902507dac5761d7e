package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/platform/logger"
	"github.com/halvard/wordvault-api/internal/store"
)

// PostgresPracticeSessionStore implements the store.PracticeSessionStore
// interface using a PostgreSQL database as the storage backend. Questions
// are serialized to a JSONB column so each session row is one aggregate.
type PostgresPracticeSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPracticeSessionStore creates a new PostgreSQL implementation
// of the PracticeSessionStore interface.
func NewPostgresPracticeSessionStore(db store.DBTX, logger *slog.Logger) *PostgresPracticeSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPracticeSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "practice_session_store")),
	}
}

// Ensure PostgresPracticeSessionStore implements store.PracticeSessionStore interface
var _ store.PracticeSessionStore = (*PostgresPracticeSessionStore)(nil)

// WithTx implements store.PracticeSessionStore.WithTx
func (s *PostgresPracticeSessionStore) WithTx(tx *sql.Tx) store.PracticeSessionStore {
	return &PostgresPracticeSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.PracticeSessionStore.Create
func (s *PostgresPracticeSessionStore) Create(ctx context.Context, session *domain.PracticeSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("practice session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		INSERT INTO practice_sessions (id, user_id, collection_id, collection_name, questions,
			current_index, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.CollectionID,
		session.CollectionName,
		questions,
		session.CurrentIndex,
		session.CreatedAt,
		session.CompletedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user or collection for session %s not found",
				store.ErrInvalidEntity, session.ID)
		}
		log.Error("failed to create practice session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("practice session created successfully",
		slog.String("session_id", session.ID.String()),
		slog.String("collection_id", session.CollectionID.String()),
		slog.Int("question_count", len(session.Questions)))
	return nil
}

// GetByID implements store.PracticeSessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresPracticeSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PracticeSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, collection_id, collection_name, questions, current_index, created_at, completed_at
		FROM practice_sessions
		WHERE id = $1
	`

	var session domain.PracticeSession
	var questions []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.CollectionID,
		&session.CollectionName,
		&questions,
		&session.CurrentIndex,
		&session.CreatedAt,
		&session.CompletedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("practice session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get practice session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(questions, &session.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}

	return &session, nil
}

// Update implements store.PracticeSessionStore.Update
// The whole record is written back, questions included.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresPracticeSessionStore) Update(ctx context.Context, session *domain.PracticeSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		UPDATE practice_sessions
		SET questions = $1, current_index = $2, completed_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		questions,
		session.CurrentIndex,
		session.CompletedAt,
		session.ID,
	)

	if err != nil {
		log.Error("failed to update practice session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrSessionNotFound); err != nil {
		log.Debug("practice session not found for update",
			slog.String("session_id", session.ID.String()))
		return err
	}

	log.Debug("practice session updated successfully",
		slog.String("session_id", session.ID.String()))
	return nil
}
