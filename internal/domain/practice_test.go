package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestQuestions(n int) []Question {
	questions := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		promptID := uuid.New()
		questions = append(questions, Question{
			Prompt:       "prompt",
			PromptWordID: promptID,
			Answers: []AnswerOption{
				{Text: "a", WordID: promptID},
				{Text: "b", WordID: uuid.New()},
				{Text: "c", WordID: uuid.New()},
				{Text: "d", WordID: uuid.New()},
			},
			CorrectIndex: 0,
		})
	}
	return questions
}

func newTestSession(t *testing.T, questionCount int) *PracticeSession {
	t.Helper()
	session, err := NewPracticeSession(uuid.New(), uuid.New(), "My words", newTestQuestions(questionCount))
	if err != nil {
		t.Fatalf("Expected no error creating session, got %v", err)
	}
	return session
}

func TestNewPracticeSession(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, 3)

	if session.CurrentIndex == nil || *session.CurrentIndex != 0 {
		t.Error("Expected session positioned at the first question")
	}
	if session.CompletedAt != nil {
		t.Error("Expected nil CompletedAt on a new session")
	}
	if session.CurrentQuestion() != &session.Questions[0] {
		t.Error("Expected CurrentQuestion to return the first question")
	}

	if _, err := NewPracticeSession(uuid.Nil, uuid.New(), "x", newTestQuestions(1)); !errors.Is(err, ErrEmptySessionUserID) {
		t.Errorf("Expected ErrEmptySessionUserID, got %v", err)
	}
	if _, err := NewPracticeSession(uuid.New(), uuid.New(), "x", nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("Expected ErrNoQuestions, got %v", err)
	}
}

func TestAnswer(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	session := newTestSession(t, 2)

	isCorrect, err := session.Answer(0, now)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !isCorrect {
		t.Error("Expected correct answer at the stored correct index")
	}
	q := &session.Questions[0]
	if q.SelectedIndex == nil || *q.SelectedIndex != 0 {
		t.Error("Expected selection recorded")
	}
	if q.AnsweredAt == nil {
		t.Error("Expected answered timestamp recorded")
	}
	// Answering never advances.
	if *session.CurrentIndex != 0 {
		t.Error("Answer must not advance the session")
	}

	// Second answer to the same question is rejected, first stands.
	if _, err := session.Answer(1, now); !errors.Is(err, ErrQuestionAlreadyAnswered) {
		t.Errorf("Expected ErrQuestionAlreadyAnswered, got %v", err)
	}
	if *q.SelectedIndex != 0 {
		t.Error("First recorded selection must not change")
	}
}

func TestAnswerOutOfRange(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	session := newTestSession(t, 1)

	if _, err := session.Answer(-1, now); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Errorf("Expected ErrAnswerOutOfRange for -1, got %v", err)
	}
	if _, err := session.Answer(4, now); !errors.Is(err, ErrAnswerOutOfRange) {
		t.Errorf("Expected ErrAnswerOutOfRange for 4, got %v", err)
	}
	// A rejected index leaves the question unanswered.
	if session.Questions[0].IsAnswered() {
		t.Error("Out-of-range answer must not be recorded")
	}
}

func TestAnswerIncorrect(t *testing.T) {
	t.Parallel()
	session := newTestSession(t, 1)

	isCorrect, err := session.Answer(2, time.Now().UTC())
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if isCorrect {
		t.Error("Expected incorrect answer for a wrong index")
	}
}

func TestAdvance(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	session := newTestSession(t, 2)

	// Cannot advance past an unanswered question.
	if _, err := session.Advance(now); !errors.Is(err, ErrQuestionNotAnswered) {
		t.Errorf("Expected ErrQuestionNotAnswered, got %v", err)
	}

	if _, err := session.Answer(0, now); err != nil {
		t.Fatal(err)
	}
	completedNow, err := session.Advance(now)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if completedNow {
		t.Error("Mid-session advance must not report completion")
	}
	if *session.CurrentIndex != 1 {
		t.Errorf("Expected current index 1, got %d", *session.CurrentIndex)
	}

	// Advancing past the last answered question completes the session.
	if _, err := session.Answer(1, now); err != nil {
		t.Fatal(err)
	}
	completedNow, err = session.Advance(now)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !completedNow {
		t.Error("Expected completion on the final advance")
	}
	if session.CurrentIndex != nil {
		t.Error("Expected CurrentIndex cleared on completion")
	}
	if session.CompletedAt == nil {
		t.Fatal("Expected CompletedAt set on completion")
	}
	if session.CurrentQuestion() != nil {
		t.Error("Expected no current question after completion")
	}

	// Advancing a completed session is an idempotent no-op that never
	// reports completion again.
	completedNow, err = session.Advance(now)
	if err != nil {
		t.Fatalf("Advance on completed session failed: %v", err)
	}
	if completedNow {
		t.Error("Repeated advance must not report completion a second time")
	}
}

func TestAnswerOnCompletedSession(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	session := newTestSession(t, 1)

	if _, err := session.Answer(0, now); err != nil {
		t.Fatal(err)
	}
	if _, err := session.Advance(now); err != nil {
		t.Fatal(err)
	}

	if _, err := session.Answer(0, now); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("Expected ErrSessionCompleted, got %v", err)
	}
}

func TestScore(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	session := newTestSession(t, 3)

	answers := []int{0, 2, 0} // correct, wrong, correct
	for _, idx := range answers {
		if _, err := session.Answer(idx, now); err != nil {
			t.Fatal(err)
		}
		if _, err := session.Advance(now); err != nil {
			t.Fatal(err)
		}
	}

	correct, total := session.Score()
	if correct != 2 || total != 3 {
		t.Errorf("Score() = (%d, %d), want (2, 3)", correct, total)
	}
}
