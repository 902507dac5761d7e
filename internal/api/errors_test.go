package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/service"
	"github.com/halvard/wordvault-api/internal/service/auth"
	"github.com/halvard/wordvault-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},

		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"collection not found", store.ErrCollectionNotFound, http.StatusNotFound},
		{"job not found", service.ErrJobNotFound, http.StatusNotFound},
		{"session not found", service.ErrSessionNotFound, http.StatusNotFound},
		{"not owned maps to not found", service.ErrNotOwned, http.StatusNotFound},

		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"question already answered", domain.ErrQuestionAlreadyAnswered, http.StatusConflict},
		{"session completed", domain.ErrSessionCompleted, http.StatusConflict},
		{"question not answered", domain.ErrQuestionNotAnswered, http.StatusConflict},

		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"empty batch", domain.ErrEmptyBatch, http.StatusBadRequest},
		{"batch too large", domain.ErrBatchTooLarge, http.StatusBadRequest},
		{"answer out of range", domain.ErrAnswerOutOfRange, http.StatusBadRequest},
		{"empty word text", domain.ErrEmptyWordText, http.StatusBadRequest},
		{"empty collection name", domain.ErrEmptyCollectionName, http.StatusBadRequest},
		{"empty collection", service.ErrEmptyCollection, http.StatusBadRequest},

		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"database failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestMapErrorToStatusCodeWrapped(t *testing.T) {
	t.Parallel()

	// Errors wrapped with %w still map to their sentinel's status.
	wrapped := fmt.Errorf("loading session: %w", store.ErrSessionNotFound)
	assert.Equal(t, http.StatusNotFound, MapErrorToStatusCode(wrapped))

	// Sentinels wrapped inside a ServiceError also map through Unwrap.
	svcErr := &service.ServiceError{
		Service:   "practice",
		Operation: "submit_answer",
		Message:   "recording answer",
		Err:       domain.ErrQuestionAlreadyAnswered,
	}
	assert.Equal(t, http.StatusConflict, MapErrorToStatusCode(svcErr))

	// A ServiceError wrapping an infrastructure failure stays a 500.
	infraErr := &service.ServiceError{
		Service:   "ingestion",
		Operation: "submit_batch",
		Message:   "persisting job",
		Err:       errors.New("pq: connection reset"),
	}
	assert.Equal(t, http.StatusInternalServerError, MapErrorToStatusCode(infraErr))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"invalid token", auth.ErrInvalidToken, "Invalid token"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"collection not found", service.ErrCollectionNotFound, "Collection not found"},
		{"job not found", store.ErrJobNotFound, "Batch not found"},
		{"not owned", service.ErrNotOwned, "Resource not found"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"session completed", domain.ErrSessionCompleted, "Practice session already completed"},
		{"empty collection", service.ErrEmptyCollection, "Collection has no words to practice"},
		{"internal detail hidden", errors.New("dial tcp 10.0.0.5:5432: i/o timeout"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New("Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	err = errors.New("Key: 'RegisterRequest.Password' Error:Field validation for 'Password' failed on the 'min' tag")
	assert.Equal(t, "Invalid Password: too short", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else entirely")))
}
