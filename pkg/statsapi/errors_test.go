package statsapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "rate limit api error",
			err:      &APIError{StatusCode: 429, Class: ErrorClassRateLimit},
			expected: ErrorClassRateLimit,
		},
		{
			name:     "wrapped api error",
			err:      fmt.Errorf("fetch player 123: %w", &APIError{StatusCode: 404, Class: ErrorClassNotFound}),
			expected: ErrorClassNotFound,
		},
		{
			name:     "deadline exceeded",
			err:      context.DeadlineExceeded,
			expected: ErrorClassTimeout,
		},
		{
			name:     "plain error treated as network",
			err:      errors.New("connection refused"),
			expected: ErrorClassNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.expected {
				t.Errorf("Classify() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassTimeout, true},
		{ErrorClassRateLimit, true},
		{ErrorClassNetwork, true},
		{ErrorClassNotFound, false},
		{ErrorClassMalformed, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			if got := shouldRetry(tt.class); got != tt.want {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}
}

func TestIsPermanent(t *testing.T) {
	if !IsPermanent(&APIError{StatusCode: 404, Class: ErrorClassNotFound}) {
		t.Error("404 should be permanent")
	}
	if !IsPermanent(&APIError{StatusCode: 400, Class: ErrorClassMalformed}) {
		t.Error("400 should be permanent")
	}
	if IsPermanent(&APIError{StatusCode: 503, Class: ErrorClassNetwork}) {
		t.Error("503 should not be permanent")
	}
}

func TestIsNotFound(t *testing.T) {
	err := fmt.Errorf("page 2 of 3: %w", &APIError{StatusCode: 404, Class: ErrorClassNotFound})
	if !IsNotFound(err) {
		t.Error("wrapped 404 should be detected as not found")
	}
	if IsNotFound(errors.New("boom")) {
		t.Error("plain error should not be not found")
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{
		StatusCode: 429,
		Class:      ErrorClassRateLimit,
		Message:    "429 Too Many Requests",
	}

	msg := err.Error()
	if !strings.Contains(msg, "rate_limit") {
		t.Errorf("Error message should contain class, got %q", msg)
	}
	if !strings.Contains(msg, "429") {
		t.Errorf("Error message should contain status, got %q", msg)
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: connection reset")
	err := &APIError{Class: ErrorClassNetwork, Message: "transport failure", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("APIError should unwrap to the inner error")
	}
}

func TestRetryAfterHint(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &APIError{
		StatusCode: 429,
		Class:      ErrorClassRateLimit,
		RetryAfter: 7 * time.Second,
	})

	if got := retryAfterHint(err); got != 7*time.Second {
		t.Errorf("retryAfterHint() = %v, want 7s", got)
	}
	if got := retryAfterHint(errors.New("boom")); got != 0 {
		t.Errorf("retryAfterHint() on plain error = %v, want 0", got)
	}
}
