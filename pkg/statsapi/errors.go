package statsapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request errors.
type ErrorClass string

const (
	// ErrorClassTimeout represents requests that exceeded the per-request timeout.
	ErrorClassTimeout ErrorClass = "timeout"

	// ErrorClassRateLimit represents HTTP 429 rate-limit responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents 5xx responses and transport-level failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassNotFound represents HTTP 404 - the entity has no data upstream.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassMalformed represents other 4xx responses and undecodable payloads.
	ErrorClassMalformed ErrorClass = "malformed"
)

// APIError represents an upstream provider error with classification context.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Message    string

	// RetryAfter is the provider-supplied backoff hint for rate-limit
	// responses. Zero when the provider sent none.
	RetryAfter time.Duration

	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statsapi %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("statsapi %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Classify returns the error class for an error produced by this package.
// Transport errors are inspected for timeouts; everything else unknown is
// treated as a network failure so the retry policy gets a chance.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Class
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}

	return ErrorClassNetwork
}

// IsPermanent reports whether an error should not be retried and should be
// surfaced as a per-entity failure (not_found, malformed).
func IsPermanent(err error) bool {
	switch Classify(err) {
	case ErrorClassNotFound, ErrorClassMalformed:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether the upstream provider has no data for the
// requested entity. Callers must treat this as data absence, not failure.
func IsNotFound(err error) bool {
	return Classify(err) == ErrorClassNotFound
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(class ErrorClass) bool {
	switch class {
	case ErrorClassTimeout, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	case ErrorClassNotFound, ErrorClassMalformed:
		// Permanent per-entity failures - retrying wastes the rate budget
		return false
	default:
		return false
	}
}

// retryAfterHint extracts the provider backoff hint from an error chain.
func retryAfterHint(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}
