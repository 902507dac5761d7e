package enrichment

import "errors"

// Common errors returned by the enrichment package
var (
	// ErrEnrichmentFailed is returned when enrichment fails for any
	// general reason.
	ErrEnrichmentFailed = errors.New("failed to enrich word")

	// ErrInvalidWord is returned when the service determines the input is
	// not a valid word. The wrapped message may carry suggestions.
	ErrInvalidWord = errors.New("input is not a valid word")

	// ErrInvalidResponse is returned when the service response cannot be
	// parsed or is malformed.
	ErrInvalidResponse = errors.New("invalid response from enrichment service")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry (timeouts, network failures, service overload).
	ErrTransientFailure = errors.New("transient error during word enrichment")

	// ErrInvalidConfig is returned when the enricher configuration is invalid.
	ErrInvalidConfig = errors.New("invalid enricher configuration")
)
