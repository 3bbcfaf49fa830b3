package statsapi

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fastSchedules swaps the backoff schedules for millisecond values so
// retry tests run quickly, restoring the real ones afterwards.
func fastSchedules(t *testing.T) {
	t.Helper()

	saved := retrySchedules
	retrySchedules = map[ErrorClass]RetryConfig{
		ErrorClassTimeout:   {InitialBackoff: 2 * time.Millisecond, MaxBackoff: 20 * time.Millisecond, BackoffMultiplier: 2.0},
		ErrorClassNetwork:   {InitialBackoff: 1 * time.Millisecond, MaxBackoff: 20 * time.Millisecond, BackoffMultiplier: 2.0},
		ErrorClassRateLimit: {InitialBackoff: 5 * time.Millisecond, MaxBackoff: 50 * time.Millisecond, BackoffMultiplier: 2.0},
	}
	t.Cleanup(func() { retrySchedules = saved })
}

func classifyAs(class ErrorClass) func(error) ErrorClass {
	return func(error) ErrorClass { return class }
}

func TestRetryConfigForErrorClass(t *testing.T) {
	tests := []struct {
		name            string
		class           ErrorClass
		expectedInitial time.Duration
		expectedMax     time.Duration
	}{
		{"network", ErrorClassNetwork, 1 * time.Second, 30 * time.Second},
		{"timeout", ErrorClassTimeout, 2 * time.Second, 30 * time.Second},
		{"rate limit gets longer floor", ErrorClassRateLimit, 5 * time.Second, 60 * time.Second},
		{"unknown uses default", "", 1 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RetryConfigForErrorClass(tt.class)
			if cfg.InitialBackoff != tt.expectedInitial {
				t.Errorf("InitialBackoff = %v, want %v", cfg.InitialBackoff, tt.expectedInitial)
			}
			if cfg.MaxBackoff != tt.expectedMax {
				t.Errorf("MaxBackoff = %v, want %v", cfg.MaxBackoff, tt.expectedMax)
			}
		})
	}
}

func TestRetryWithBackoff_Success(t *testing.T) {
	callCount := 0
	err := retryWithBackoff(context.Background(), 3, func() error {
		callCount++
		return nil
	}, classifyAs(ErrorClassNetwork))

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("Expected 1 call, got %d", callCount)
	}
}

func TestRetryWithBackoff_SuccessAfterRetry(t *testing.T) {
	fastSchedules(t)

	callCount := 0
	err := retryWithBackoff(context.Background(), 3, func() error {
		callCount++
		if callCount < 3 {
			return errors.New("temporary error")
		}
		return nil
	}, classifyAs(ErrorClassNetwork))

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected 3 calls, got %d", callCount)
	}
}

func TestRetryWithBackoff_ExactlyMaxAttempts(t *testing.T) {
	fastSchedules(t)

	// An operation that always fails transiently must be called exactly
	// maxAttempts times, then reported as exhausted.
	callCount := 0
	testErr := errors.New("persistent network error")
	err := retryWithBackoff(context.Background(), 3, func() error {
		callCount++
		return testErr
	}, classifyAs(ErrorClassNetwork))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("Expected exactly 3 calls, got %d", callCount)
	}
}

func TestRetryWithBackoff_PermanentNoRetry(t *testing.T) {
	callCount := 0
	testErr := &APIError{StatusCode: 404, Class: ErrorClassNotFound, Message: "no records"}
	err := retryWithBackoff(context.Background(), 3, func() error {
		callCount++
		return testErr
	}, Classify)

	if callCount != 1 {
		t.Errorf("Expected 1 call (no retry for permanent errors), got %d", callCount)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("Permanent errors should not be reported as retry exhaustion")
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Expected original error, got %v", err)
	}
}

func TestRetryWithBackoff_RetryAfterHintRaisesFloor(t *testing.T) {
	fastSchedules(t)

	// The provider hint (60ms) exceeds the schedule's 5ms base, so the
	// retry must wait at least the hint (minus jitter tolerance).
	hintErr := &APIError{
		StatusCode: 429,
		Class:      ErrorClassRateLimit,
		RetryAfter: 60 * time.Millisecond,
	}

	callCount := 0
	start := time.Now()
	_ = retryWithBackoff(context.Background(), 2, func() error {
		callCount++
		if callCount == 1 {
			return hintErr
		}
		return nil
	}, Classify)
	elapsed := time.Since(start)

	if callCount != 2 {
		t.Fatalf("Expected 2 calls, got %d", callCount)
	}
	// Jitter is ±20%, so the wait is at least 48ms.
	if elapsed < 40*time.Millisecond {
		t.Errorf("Expected backoff to honor Retry-After hint, elapsed %v", elapsed)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	fastSchedules(t)

	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	err := retryWithBackoff(ctx, 3, func() error {
		callCount++
		if callCount == 1 {
			cancel()
		}
		return errors.New("network error")
	}, classifyAs(ErrorClassNetwork))

	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("Expected ErrContextCancelled, got %v", err)
	}
	if callCount >= 3 {
		t.Errorf("Expected fewer than 3 calls due to cancellation, got %d", callCount)
	}
}

func TestRetryWithBackoff_MaxBackoffCap(t *testing.T) {
	config := RetryConfig{
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        3 * time.Second,
		BackoffMultiplier: 10.0,
	}

	backoff := config.InitialBackoff
	for i := 0; i < 3; i++ {
		backoff = time.Duration(float64(backoff) * config.BackoffMultiplier)
		if backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}

	if backoff != config.MaxBackoff {
		t.Errorf("Expected backoff to cap at %v, got %v", config.MaxBackoff, backoff)
	}
}
