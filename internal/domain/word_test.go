package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewWord(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	word, err := NewWord(userID, "  Serendipity ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if word.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if word.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, word.UserID)
	}
	if word.Text != "Serendipity" {
		t.Errorf("Expected trimmed text %q, got %q", "Serendipity", word.Text)
	}
	if word.NormalizedText != "serendipity" {
		t.Errorf("Expected normalized text %q, got %q", "serendipity", word.NormalizedText)
	}
	if word.CreatedAt.IsZero() || word.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	// Missing owner
	if _, err := NewWord(uuid.Nil, "word"); !errors.Is(err, ErrEmptyWordUserID) {
		t.Errorf("Expected ErrEmptyWordUserID, got %v", err)
	}

	// Blank text, including whitespace-only
	if _, err := NewWord(userID, "   "); !errors.Is(err, ErrEmptyWordText) {
		t.Errorf("Expected ErrEmptyWordText, got %v", err)
	}
}

func TestNormalizeWordText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"Hello", "hello"},
		{"  WORLD  ", "world"},
		{"\tmixed Case\n", "mixed case"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range tests {
		if got := NormalizeWordText(tc.input); got != tc.want {
			t.Errorf("NormalizeWordText(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPreferredTranslation(t *testing.T) {
	t.Parallel()
	word := Word{Text: "katze", TranslationEN: "cat", TranslationRU: "кошка"}

	if got := word.PreferredTranslation(); got != "cat" {
		t.Errorf("Expected English translation, got %q", got)
	}

	word.TranslationEN = ""
	if got := word.PreferredTranslation(); got != "кошка" {
		t.Errorf("Expected Russian translation, got %q", got)
	}

	word.TranslationRU = ""
	if got := word.PreferredTranslation(); got != "katze" {
		t.Errorf("Expected raw text fallback, got %q", got)
	}
}
