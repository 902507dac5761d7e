// Package enrichment defines the boundary between the application core and
// the external word-enrichment service. The core depends only on the
// Enricher interface; the Gemini-backed implementation lives in
// internal/platform/gemini.
package enrichment

import "context"

// WordData is the structured enrichment result for a single word.
type WordData struct {
	// Word is the canonical form of the enriched word.
	Word string `json:"word"`

	// TranslationEN and TranslationRU are the word's translations; either
	// may be empty when the service cannot provide one.
	TranslationEN string `json:"translation_en"`
	TranslationRU string `json:"translation_ru"`

	// PartOfSpeech is the word's grammatical category (noun, verb, ...).
	PartOfSpeech string `json:"part_of_speech"`

	// Definition is a short gloss of the word's meaning.
	Definition string `json:"definition"`

	// Examples holds usage examples, possibly empty.
	Examples []string `json:"examples"`
}

// Enricher produces structured data for one word by calling the external
// enrichment service. Implementations must classify failures as
// ErrInvalidWord (the service judged the input not to be a word) or
// ErrTransientFailure (network or service trouble) so callers can log the
// two distinctly, and must bound the call with a timeout.
type Enricher interface {
	Enrich(ctx context.Context, word string) (*WordData, error)
}
