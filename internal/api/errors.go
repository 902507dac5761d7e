package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/halvard/wordvault-api/internal/api/shared"
	"github.com/halvard/wordvault-api/internal/domain"
	"github.com/halvard/wordvault-api/internal/service"
	"github.com/halvard/wordvault-api/internal/service/auth"
	"github.com/halvard/wordvault-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. Ownership failures map here too so that probing
	// for other users' resource IDs cannot confirm their existence.
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrWordNotFound),
		errors.Is(err, store.ErrCollectionNotFound),
		errors.Is(err, store.ErrJobNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, service.ErrCollectionNotFound),
		errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusNotFound

	// Conflict errors: duplicate registration and practice state machine
	// violations (answering twice, advancing past an unanswered question,
	// answering a finished session)
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, domain.ErrQuestionAlreadyAnswered),
		errors.Is(err, domain.ErrSessionCompleted),
		errors.Is(err, domain.ErrQuestionNotAnswered):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyBatch),
		errors.Is(err, domain.ErrBatchTooLarge),
		errors.Is(err, domain.ErrAnswerOutOfRange),
		errors.Is(err, domain.ErrEmptyWordText),
		errors.Is(err, domain.ErrEmptyCollectionName),
		errors.Is(err, service.ErrEmptyCollection),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrWordNotFound):
		return "Word not found"

	case errors.Is(err, store.ErrCollectionNotFound),
		errors.Is(err, service.ErrCollectionNotFound):
		return "Collection not found"

	case errors.Is(err, store.ErrJobNotFound),
		errors.Is(err, service.ErrJobNotFound):
		return "Batch not found"

	case errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return "Practice session not found"

	case errors.Is(err, service.ErrNotOwned):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrQuestionAlreadyAnswered):
		return "Question already answered"

	case errors.Is(err, domain.ErrSessionCompleted):
		return "Practice session already completed"

	case errors.Is(err, domain.ErrQuestionNotAnswered):
		return "Current question has not been answered"

	// Bad request errors
	case errors.Is(err, domain.ErrEmptyBatch):
		return "Word batch cannot be empty"

	case errors.Is(err, domain.ErrBatchTooLarge):
		return "Word batch exceeds the maximum size"

	case errors.Is(err, domain.ErrAnswerOutOfRange):
		return "Selected answer index is out of range"

	case errors.Is(err, domain.ErrEmptyWordText):
		return "Word text cannot be empty"

	case errors.Is(err, domain.ErrEmptyCollectionName):
		return "Collection name cannot be empty"

	case errors.Is(err, service.ErrEmptyCollection):
		return "Collection has no words to practice"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to a status code and safe message, writes
// the JSON error response, and logs the underlying error with the trace
// ID. An empty userMessage selects the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation
	// for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
