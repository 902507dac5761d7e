package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted
	// for the acting user.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrQuestionAlreadyAnswered is returned when an answer is submitted
	// for a question that already has a recorded selection.
	ErrQuestionAlreadyAnswered = errors.New("question already answered")

	// ErrSessionCompleted is returned when an answer is submitted to a
	// practice session that has already finished.
	ErrSessionCompleted = errors.New("practice session already completed")

	// ErrQuestionNotAnswered is returned when advancing past a question
	// that has no recorded answer yet.
	ErrQuestionNotAnswered = errors.New("current question not answered")
)
