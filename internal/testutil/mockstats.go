// Package testutil provides testing utilities for the collector.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock provider endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockStats is a configurable mock stats provider for testing.
type MockStats struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	PathCounts   map[string]int
}

// NewMockStats creates a new mock stats provider server.
func NewMockStats() *MockStats {
	mock := &MockStats{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockStats) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockStats) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockStats) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockStats) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to one path.
func (m *MockStats) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// SetHandler sets a custom handler for a specific path.
func (m *MockStats) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockStats) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetProspects configures the roster endpoint for a season.
func (m *MockStats) SetProspects(body string) {
	m.SetResponse("/api/v1/prospects", MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	})
}

// SetGameLog serves the paginated game-log endpoint for one player. Each
// element of pages is one page body; the X-Total-Pages header reflects
// len(pages).
func (m *MockStats) SetGameLog(playerID int, pages []string) {
	path := GameLogPath(playerID)
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			if n, err := strconv.Atoi(p); err == nil {
				page = n
			}
		}
		if page < 1 || page > len(pages) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Total-Pages", strconv.Itoa(len(pages)))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(pages[page-1]))
	})
}

// GameLogPath returns the game-log endpoint path for a player.
func GameLogPath(playerID int) string {
	return fmt.Sprintf("/api/v1/players/%d/gamelog", playerID)
}

// NewRateLimitResponse creates a 429 Too Many Requests response with a
// Retry-After hint.
func NewRateLimitResponse(retryAfterSec int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Retry-After":  strconv.Itoa(retryAfterSec),
			"Content-Type": "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewNotFoundResponse creates a 404 response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "No records found"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// FlakyHandler fails with the given response for failCount requests, then
// delegates to the success handler.
func (m *MockStats) FlakyHandler(path string, failCount int, failure MockResponse, success func(w http.ResponseWriter, r *http.Request)) {
	var mu sync.Mutex
	failures := 0
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		shouldFail := failures < failCount
		if shouldFail {
			failures++
		}
		mu.Unlock()

		if shouldFail {
			for key, value := range failure.Headers {
				w.Header().Set(key, value)
			}
			w.WriteHeader(failure.StatusCode)
			w.Write([]byte(failure.Body))
			return
		}
		success(w, r)
	})
}
