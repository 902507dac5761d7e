// Package gemini implements the enrichment.Enricher interface on top of
// Google's Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/halvard/wordvault-api/internal/config"
	"github.com/halvard/wordvault-api/internal/enrichment"
)

// promptTemplateText asks the model for a strict JSON object so the
// response can be unmarshalled directly into responseSchema.
const promptTemplateText = `You are a dictionary service. Analyze the word or short phrase below.

Word: {{.Word}}

Respond with a single JSON object and nothing else, using exactly these fields:
{
  "valid": true or false,
  "word": "canonical form of the word",
  "translation_en": "English translation, or empty string",
  "translation_ru": "Russian translation, or empty string",
  "part_of_speech": "noun/verb/adjective/...",
  "definition": "one-sentence definition",
  "examples": ["up to three short usage examples"],
  "suggestions": ["if valid is false, up to three similar real words"]
}
If the input is not a real word in any supported language, set "valid" to false.`

// responseSchema mirrors the JSON object requested from the model.
type responseSchema struct {
	Valid         bool     `json:"valid"`
	Word          string   `json:"word"`
	TranslationEN string   `json:"translation_en"`
	TranslationRU string   `json:"translation_ru"`
	PartOfSpeech  string   `json:"part_of_speech"`
	Definition    string   `json:"definition"`
	Examples      []string `json:"examples"`
	Suggestions   []string `json:"suggestions"`
}

// Enricher implements enrichment.Enricher using the Gemini API.
type Enricher struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

var _ enrichment.Enricher = (*Enricher)(nil)

// NewEnricher creates a Gemini-backed enricher from LLM configuration.
func NewEnricher(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Enricher, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", enrichment.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", enrichment.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("enrich").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", enrichment.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", enrichment.ErrInvalidConfig, err)
	}

	return &Enricher{
		logger:         logger.With("component", "gemini_enricher"),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// Enrich calls the Gemini API for one word, retrying transient failures
// with exponential backoff and jitter. Permanent outcomes (invalid word,
// malformed response) are returned immediately.
func (e *Enricher) Enrich(ctx context.Context, word string) (*enrichment.WordData, error) {
	if strings.TrimSpace(word) == "" {
		return nil, fmt.Errorf("%w: empty word", enrichment.ErrInvalidWord)
	}

	prompt, err := e.createPrompt(word)
	if err != nil {
		return nil, err
	}

	resp, err := e.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if !resp.Valid {
		if len(resp.Suggestions) > 0 {
			return nil, fmt.Errorf("%w: %q (did you mean: %s)",
				enrichment.ErrInvalidWord, word, strings.Join(resp.Suggestions, ", "))
		}
		return nil, fmt.Errorf("%w: %q", enrichment.ErrInvalidWord, word)
	}

	canonical := resp.Word
	if canonical == "" {
		canonical = word
	}

	return &enrichment.WordData{
		Word:          canonical,
		TranslationEN: resp.TranslationEN,
		TranslationRU: resp.TranslationRU,
		PartOfSpeech:  resp.PartOfSpeech,
		Definition:    resp.Definition,
		Examples:      resp.Examples,
	}, nil
}

func (e *Enricher) createPrompt(word string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Word string }{Word: word}
	if err := e.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// callWithRetry makes the Gemini call with exponential backoff plus jitter
// for transient errors. Each individual attempt is bounded by the
// configured request timeout so the caller never blocks past the
// ingestion lease window.
func (e *Enricher) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := e.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 3
	}
	baseDelaySeconds := e.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	requestTimeout := e.config.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		resp, err := e.callOnce(ctx, prompt, requestTimeout)
		if err == nil {
			return resp, nil
		}

		if errors.Is(err, enrichment.ErrInvalidResponse) {
			e.logger.WarnContext(ctx, "permanent enrichment error, not retrying", "error", err)
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				enrichment.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		e.logger.InfoContext(ctx, "retrying enrichment call",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"delay", delay,
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", enrichment.ErrTransientFailure, ctx.Err())
		}
	}
}

func (e *Enricher) callOnce(ctx context.Context, prompt string, timeout time.Duration) (*responseSchema, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.client.Models.GenerateContent(
		callCtx,
		e.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", enrichment.ErrTransientFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no content generated", enrichment.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: content blocked by safety filters", enrichment.ErrInvalidResponse)
	}

	text := resp.Text()
	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", enrichment.ErrInvalidResponse, err)
	}
	return &parsed, nil
}
