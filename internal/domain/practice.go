package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Practice-specific validation errors
var (
	ErrEmptySessionID     = errors.New("practice session ID cannot be empty")
	ErrEmptySessionUserID = errors.New("practice session user ID cannot be empty")
	ErrNoQuestions        = errors.New("practice session must contain at least one question")
	ErrAnswerOutOfRange   = errors.New("selected answer index out of range")
)

// AnswerOption is a single selectable option within a question. Text is the
// option's display text (the word's preferred translation) and WordID
// identifies the word it was built from.
type AnswerOption struct {
	Text   string    `json:"text"`
	WordID uuid.UUID `json:"word_id"`
}

// Question is one multiple-choice question in a practice session. It is
// built fully formed (options shuffled, correct index recorded) at session
// start and becomes immutable once SelectedIndex is set.
type Question struct {
	Prompt        string         `json:"prompt"`
	PromptWordID  uuid.UUID      `json:"prompt_word_id"`
	Answers       []AnswerOption `json:"answers"`
	CorrectIndex  int            `json:"correct_index"`
	SelectedIndex *int           `json:"selected_index,omitempty"`
	AnsweredAt    *time.Time     `json:"answered_at,omitempty"`
}

// IsAnswered reports whether the question has a recorded selection.
func (q *Question) IsAnswered() bool {
	return q.SelectedIndex != nil
}

// PracticeSession is one quiz attempt over a collection. While in progress
// CurrentIndex points at the active question; once the last question has
// been answered and advanced past, CurrentIndex is cleared and CompletedAt
// set. Exactly one of the two is present at any observable moment. Sessions
// are never deleted; a completed session is the immutable score record.
type PracticeSession struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	CollectionID   uuid.UUID  `json:"collection_id"`
	CollectionName string     `json:"collection_name"`
	Questions      []Question `json:"questions"`
	CurrentIndex   *int       `json:"current_index,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// NewPracticeSession creates an in-progress session positioned at the
// first question. The questions must already be fully built and shuffled
// (see the quiz generator).
func NewPracticeSession(userID, collectionID uuid.UUID, collectionName string, questions []Question) (*PracticeSession, error) {
	if userID == uuid.Nil {
		return nil, ErrEmptySessionUserID
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	start := 0
	return &PracticeSession{
		ID:             uuid.New(),
		UserID:         userID,
		CollectionID:   collectionID,
		CollectionName: collectionName,
		Questions:      questions,
		CurrentIndex:   &start,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Validate checks if the PracticeSession has valid data.
func (s *PracticeSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}
	if s.UserID == uuid.Nil {
		return ErrEmptySessionUserID
	}
	if len(s.Questions) == 0 {
		return ErrNoQuestions
	}
	return nil
}

// IsCompleted reports whether the session has reached its terminal state.
func (s *PracticeSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// CurrentQuestion returns the active question, or nil once completed.
func (s *PracticeSession) CurrentQuestion() *Question {
	if s.CurrentIndex == nil || *s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[*s.CurrentIndex]
}

// Answer records a selection for the current question. It fails with
// ErrSessionCompleted on a finished session, ErrQuestionAlreadyAnswered if
// the current question already has a selection, and ErrAnswerOutOfRange
// for an invalid index. It never advances the session. The returned
// boolean is derived by comparing the selection against the stored
// correct index, so it cannot drift from it.
func (s *PracticeSession) Answer(selectedIndex int, now time.Time) (bool, error) {
	if s.IsCompleted() {
		return false, ErrSessionCompleted
	}

	q := s.CurrentQuestion()
	if q == nil {
		return false, ErrSessionCompleted
	}
	if q.IsAnswered() {
		return false, ErrQuestionAlreadyAnswered
	}
	if selectedIndex < 0 || selectedIndex >= len(q.Answers) {
		return false, fmt.Errorf("%w: %d of %d options", ErrAnswerOutOfRange, selectedIndex, len(q.Answers))
	}

	answered := now.UTC()
	sel := selectedIndex
	q.SelectedIndex = &sel
	q.AnsweredAt = &answered

	return selectedIndex == q.CorrectIndex, nil
}

// Advance moves past the current (answered) question. On the last question
// it transitions the session to completed; completedNow is true only for
// the single call that performs that transition, which is what keys the
// streak side effect to fire exactly once. Advancing an already-completed
// session is an idempotent no-op success.
func (s *PracticeSession) Advance(now time.Time) (completedNow bool, err error) {
	if s.IsCompleted() {
		return false, nil
	}

	q := s.CurrentQuestion()
	if q == nil {
		return false, nil
	}
	if !q.IsAnswered() {
		return false, ErrQuestionNotAnswered
	}

	if *s.CurrentIndex == len(s.Questions)-1 {
		completed := now.UTC()
		s.CurrentIndex = nil
		s.CompletedAt = &completed
		return true, nil
	}

	next := *s.CurrentIndex + 1
	s.CurrentIndex = &next
	return false, nil
}

// Score returns the number of correctly answered questions and the total.
func (s *PracticeSession) Score() (correct, total int) {
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.IsAnswered() && *q.SelectedIndex == q.CorrectIndex {
			correct++
		}
	}
	return correct, len(s.Questions)
}
