package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("test@example.com", "securepassword123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.StreakCount != 0 {
		t.Errorf("Expected streak 0, got %d", user.StreakCount)
	}
	if user.LastPracticedAt != nil {
		t.Error("Expected nil LastPracticedAt on a new user")
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"empty email", "", "securepassword123", ErrEmptyEmail},
		{"invalid email", "not-an-email", "securepassword123", ErrInvalidEmail},
		{"short password", "a@b.com", "short", ErrPasswordTooShort},
		{"long password", "a@b.com", strings.Repeat("x", 73), ErrPasswordTooLong},
	}

	for _, tc := range tests {
		if _, err := NewUser(tc.email, tc.password); !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestRecordPractice(t *testing.T) {
	t.Parallel()

	day := func(d int, hour int) time.Time {
		return time.Date(2026, 3, d, hour, 0, 0, 0, time.UTC)
	}

	user := &User{ID: uuid.New(), Email: "a@b.com", HashedPassword: "hash"}

	// First completion starts a streak of one.
	user.RecordPractice(day(1, 9))
	if user.StreakCount != 1 {
		t.Errorf("Expected streak 1, got %d", user.StreakCount)
	}

	// Same day again is a no-op.
	user.RecordPractice(day(1, 21))
	if user.StreakCount != 1 {
		t.Errorf("Expected streak 1 after same-day practice, got %d", user.StreakCount)
	}
	if !user.LastPracticedAt.Equal(day(1, 9)) {
		t.Error("Same-day practice must not update LastPracticedAt")
	}

	// Next day extends it.
	user.RecordPractice(day(2, 8))
	if user.StreakCount != 2 {
		t.Errorf("Expected streak 2, got %d", user.StreakCount)
	}

	// Skipping a day resets to one.
	user.RecordPractice(day(4, 8))
	if user.StreakCount != 1 {
		t.Errorf("Expected streak reset to 1, got %d", user.StreakCount)
	}
}
