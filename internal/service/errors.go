// Package service provides application-level services for vocabulary
// collections, bulk ingestion, and practice sessions.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. The API layer maps this to HTTP 404 so that
	// probing for other users' resource IDs cannot confirm their existence.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrCollectionNotFound indicates that the collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrJobNotFound indicates that the ingestion job does not exist.
	ErrJobNotFound = errors.New("ingestion job not found")

	// ErrSessionNotFound indicates that the practice session does not exist.
	ErrSessionNotFound = errors.New("practice session not found")

	// ErrEmptyCollection indicates a practice session was requested for a
	// collection with no words.
	ErrEmptyCollection = errors.New("collection has no words to practice")
)

// ServiceError wraps unexpected errors from a service with operation context.
type ServiceError struct {
	// Service is the service that produced the error (e.g., "ingestion").
	Service string
	// Operation is the operation that failed (e.g., "submit_batch").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
