package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/events"
	"github.com/halvard/wordvault-api/internal/store"
	"github.com/halvard/wordvault-api/internal/task"
)

// AnswerResult reports the outcome of one answer submission.
type AnswerResult struct {
	IsCorrect     bool `json:"is_correct"`
	CorrectIndex  int  `json:"correct_index"`
	SelectedIndex int  `json:"selected_index"`
}

// AdvanceResult reports the session position after an advance. NextIndex is
// nil once the session has completed.
type AdvanceResult struct {
	NextIndex *int `json:"next_index"`
	Completed bool `json:"completed"`
}

// PracticeService provides quiz session operations.
type PracticeService interface {
	// StartSession generates a quiz over a collection the user owns and
	// persists it. questionCount <= 0 selects the configured default.
	StartSession(ctx context.Context, userID, collectionID uuid.UUID, questionCount int) (*domain.PracticeSession, error)

	// SubmitAnswer records the user's selection for the current question
	// without advancing, and reports correctness.
	SubmitAnswer(ctx context.Context, userID, sessionID uuid.UUID, selectedIndex int) (*AnswerResult, error)

	// Advance moves the session to the next question, completing it after
	// the last one. Advancing a completed session is a no-op success.
	Advance(ctx context.Context, userID, sessionID uuid.UUID) (*AdvanceResult, error)

	// GetSession retrieves a session the user owns.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.PracticeSession, error)
}

// NewPracticeServiceError wraps an error with practice service context.
// Known sentinel errors pass through unwrapped.
func NewPracticeServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrCollectionNotFound) ||
		errors.Is(err, ErrEmptyCollection) || errors.Is(err, ErrNotOwned) ||
		errors.Is(err, domain.ErrSessionCompleted) ||
		errors.Is(err, domain.ErrQuestionAlreadyAnswered) ||
		errors.Is(err, domain.ErrQuestionNotAnswered) ||
		errors.Is(err, domain.ErrAnswerOutOfRange) {
		return err
	}
	if errors.Is(err, store.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return &ServiceError{
		Service:   "practice",
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// practiceServiceImpl implements the PracticeService interface.
type practiceServiceImpl struct {
	sessions             store.PracticeSessionStore
	collections          store.CollectionStore
	tx                   store.TxRunner
	generator            *QuizGenerator
	eventEmitter         events.EventEmitter
	defaultQuestionCount int
	logger               *slog.Logger
	now                  func() time.Time
}

// NewPracticeService creates a new PracticeService.
// It returns an error if any of the required dependencies are nil.
func NewPracticeService(
	sessions store.PracticeSessionStore,
	collections store.CollectionStore,
	tx store.TxRunner,
	generator *QuizGenerator,
	eventEmitter events.EventEmitter,
	defaultQuestionCount int,
	logger *slog.Logger,
) (PracticeService, error) {
	if sessions == nil {
		return nil, &ServiceError{
			Service:   "practice",
			Operation: "create_service",
			Message:   "session store cannot be nil",
		}
	}
	if collections == nil {
		return nil, &ServiceError{
			Service:   "practice",
			Operation: "create_service",
			Message:   "collection store cannot be nil",
		}
	}
	if tx == nil {
		return nil, &ServiceError{
			Service:   "practice",
			Operation: "create_service",
			Message:   "transaction runner cannot be nil",
		}
	}
	if generator == nil {
		return nil, &ServiceError{
			Service:   "practice",
			Operation: "create_service",
			Message:   "quiz generator cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &ServiceError{
			Service:   "practice",
			Operation: "create_service",
			Message:   "event emitter cannot be nil",
		}
	}
	if defaultQuestionCount <= 0 {
		defaultQuestionCount = 10
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &practiceServiceImpl{
		sessions:             sessions,
		collections:          collections,
		tx:                   tx,
		generator:            generator,
		eventEmitter:         eventEmitter,
		defaultQuestionCount: defaultQuestionCount,
		logger:               logger.With("component", "practice_service"),
		now:                  func() time.Time { return time.Now().UTC() },
	}, nil
}

// StartSession generates a quiz over a collection the user owns.
func (s *practiceServiceImpl) StartSession(
	ctx context.Context,
	userID, collectionID uuid.UUID,
	questionCount int,
) (*domain.PracticeSession, error) {
	collection, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCollectionNotFound
		}
		return nil, NewPracticeServiceError("start_session", "failed to retrieve collection", err)
	}
	if collection.UserID != userID {
		return nil, ErrCollectionNotFound
	}

	words, err := s.collections.GetWords(ctx, collectionID)
	if err != nil {
		return nil, NewPracticeServiceError("start_session", "failed to load collection words", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCollection
	}

	if questionCount <= 0 {
		questionCount = s.defaultQuestionCount
	}

	questions, err := s.generator.Generate(words, questionCount)
	if err != nil {
		return nil, NewPracticeServiceError("start_session", "failed to generate questions", err)
	}

	session, err := domain.NewPracticeSession(userID, collectionID, collection.Name, questions)
	if err != nil {
		return nil, NewPracticeServiceError("start_session", "invalid session", err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("failed to create practice session",
			"error", err,
			"collection_id", collectionID,
			"user_id", userID)
		return nil, NewPracticeServiceError("start_session", "failed to save session", err)
	}

	s.logger.Info("practice session started",
		"session_id", session.ID,
		"collection_id", collectionID,
		"user_id", userID,
		"question_count", len(questions))
	return session, nil
}

// SubmitAnswer records the selection for the current question inside a
// transaction: reload the session, apply the answer, write the whole record
// back. The session does not advance.
func (s *practiceServiceImpl) SubmitAnswer(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	selectedIndex int,
) (*AnswerResult, error) {
	var result *AnswerResult
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txSessions := s.sessions.WithTx(tx)

		session, err := s.loadOwned(ctx, txSessions, userID, sessionID)
		if err != nil {
			return err
		}

		current := session.CurrentQuestion()
		isCorrect, err := session.Answer(selectedIndex, s.now())
		if err != nil {
			return NewPracticeServiceError("submit_answer", "failed to record answer", err)
		}

		if err := txSessions.Update(ctx, session); err != nil {
			return NewPracticeServiceError("submit_answer", "failed to save session", err)
		}

		result = &AnswerResult{
			IsCorrect:     isCorrect,
			CorrectIndex:  current.CorrectIndex,
			SelectedIndex: selectedIndex,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("answer recorded",
		"session_id", sessionID,
		"user_id", userID,
		"is_correct", result.IsCorrect)
	return result, nil
}

// Advance moves the session forward inside a transaction. When the advance
// completes the session, a streak update event is emitted after the
// transaction commits; the domain's completedNow flag fires once per
// session, so retried advances never emit a second event.
func (s *practiceServiceImpl) Advance(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*AdvanceResult, error) {
	var (
		result       *AdvanceResult
		completedNow bool
		completedAt  time.Time
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txSessions := s.sessions.WithTx(tx)

		session, err := s.loadOwned(ctx, txSessions, userID, sessionID)
		if err != nil {
			return err
		}

		completedNow, err = session.Advance(s.now())
		if err != nil {
			return NewPracticeServiceError("advance", "failed to advance session", err)
		}

		if err := txSessions.Update(ctx, session); err != nil {
			return NewPracticeServiceError("advance", "failed to save session", err)
		}

		result = &AdvanceResult{
			NextIndex: session.CurrentIndex,
			Completed: session.IsCompleted(),
		}
		if completedNow {
			completedAt = *session.CompletedAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completedNow {
		s.emitStreakEvent(ctx, userID, sessionID, completedAt)
	}
	return result, nil
}

// GetSession retrieves a session and verifies ownership. A session owned by
// another user is reported as not found.
func (s *practiceServiceImpl) GetSession(
	ctx context.Context,
	userID, sessionID uuid.UUID,
) (*domain.PracticeSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, NewPracticeServiceError("get_session", "failed to retrieve session", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// loadOwned reloads a session within a transaction and verifies ownership.
func (s *practiceServiceImpl) loadOwned(
	ctx context.Context,
	sessions store.PracticeSessionStore,
	userID, sessionID uuid.UUID,
) (*domain.PracticeSession, error) {
	session, err := sessions.GetByID(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, NewPracticeServiceError("load_session", "failed to reload session", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// emitStreakEvent fires the streak side effect. Emission is fire-and-forget:
// the session is already committed as completed, so a failed emit is logged
// and dropped rather than surfaced to the user.
func (s *practiceServiceImpl) emitStreakEvent(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	completedAt time.Time,
) {
	payload := task.StreakEventPayload{
		UserID:      userID,
		CompletedAt: completedAt,
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeStreakUpdate, payload)
	if err != nil {
		s.logger.Error("failed to create streak update event",
			"error", err,
			"session_id", sessionID,
			"user_id", userID)
		return
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit streak update event",
			"error", err,
			"session_id", sessionID,
			"user_id", userID,
			"event_id", event.ID)
		return
	}

	s.logger.Info("streak update event emitted",
		"session_id", sessionID,
		"user_id", userID,
		"event_id", event.ID)
}
