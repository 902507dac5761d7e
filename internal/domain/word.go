package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Word-specific validation errors
var (
	ErrEmptyWordID     = errors.New("word ID cannot be empty")
	ErrEmptyWordUserID = errors.New("word user ID cannot be empty")
	ErrEmptyWordText   = errors.New("word text cannot be empty")
)

// Word represents a single vocabulary entry owned by a user, holding the
// raw text as submitted plus the enrichment data (translations, grammar)
// produced by the enrichment gateway.
type Word struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Text           string    `json:"text"`
	NormalizedText string    `json:"normalized_text"`
	TranslationEN  string    `json:"translation_en,omitempty"`
	TranslationRU  string    `json:"translation_ru,omitempty"`
	PartOfSpeech   string    `json:"part_of_speech,omitempty"`
	Definition     string    `json:"definition,omitempty"`
	Examples       []string  `json:"examples,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NormalizeWordText lowercases and trims a word so that lookups for the
// duplicate fast path are insensitive to casing and surrounding whitespace.
func NormalizeWordText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// NewWord creates a new Word with the given owner and raw text.
// The normalized form is derived from the text. Returns an error if
// validation fails.
func NewWord(userID uuid.UUID, text string) (*Word, error) {
	word := &Word{
		ID:             uuid.New(),
		UserID:         userID,
		Text:           strings.TrimSpace(text),
		NormalizedText: NormalizeWordText(text),
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrEmptyWordID
	}

	if w.UserID == uuid.Nil {
		return ErrEmptyWordUserID
	}

	if w.NormalizedText == "" {
		return ErrEmptyWordText
	}

	return nil
}

// PreferredTranslation returns the display text used for quiz answers:
// the first non-empty of English translation, Russian translation, and
// the raw word text.
func (w *Word) PreferredTranslation() string {
	if w.TranslationEN != "" {
		return w.TranslationEN
	}
	if w.TranslationRU != "" {
		return w.TranslationRU
	}
	return w.Text
}
