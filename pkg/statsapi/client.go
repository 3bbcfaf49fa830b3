// Package statsapi provides the rate-limited HTTP client for the external
// minor-league stats provider, with per-error-class retry and an optional
// Redis payload cache.
package statsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/prospectlab/milb-ingest/pkg/cache"
)

// Prometheus metrics for stats provider requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "milb_requests_total",
		Help: "Total stats provider requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "milb_request_duration_seconds",
		Help:    "Stats provider request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "milb_errors_total",
		Help: "Total stats provider errors by class",
	}, []string{"class"})
)

// Header carrying the total page count for paginated game-log responses.
const headerTotalPages = "X-Total-Pages"

// Client is the stats provider HTTP client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the stats provider, e.g. "https://stats.example.com".
	BaseURL string

	// User-Agent header sent on every request.
	UserAgent string

	// RequestTimeout is the per-request timeout.
	RequestTimeout time.Duration

	// Connection pool limits. Concurrent entity processing is capped by
	// these, not by an independent scheduler.
	MaxIdleConns    int
	MaxConnsPerHost int

	// Client-side request pacing.
	RequestsPerSecond float64
	Burst             int

	// Retry
	MaxAttempts int

	// Cache is the optional Redis payload cache. Nil disables caching.
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		UserAgent:         "milb-ingest/1.0 (prospectlab)",
		RequestTimeout:    30 * time.Second,
		MaxIdleConns:      10,
		MaxConnsPerHost:   5,
		RequestsPerSecond: 5,
		Burst:             5,
		MaxAttempts:       3,
	}
}

// New creates a new stats provider client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 10
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = 5
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	logger := log.With().Str("component", "statsapi").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    cfg.MaxIdleConns,
				MaxConnsPerHost: cfg.MaxConnsPerHost,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cache:   cfg.Cache,
		config:  cfg,
		logger:  logger,
	}, nil
}

// FetchPlayerSeason retrieves every game-log page for one (player, season)
// entity and returns the raw page bodies in page order. Each page carries
// nested per-game and per-play structures decoded by pkg/extract.
func (c *Client) FetchPlayerSeason(ctx context.Context, playerID, season int) ([][]byte, error) {
	first, totalPages, err := c.FetchGameLogPage(ctx, playerID, season, 1)
	if err != nil {
		return nil, err
	}

	pages := [][]byte{first}
	for page := 2; page <= totalPages; page++ {
		body, _, err := c.FetchGameLogPage(ctx, playerID, season, page)
		if err != nil {
			return nil, fmt.Errorf("page %d of %d: %w", page, totalPages, err)
		}
		pages = append(pages, body)
	}

	c.logger.Debug().
		Int("player_id", playerID).
		Int("season", season).
		Int("pages", len(pages)).
		Msg("Player season fetched")

	return pages, nil
}

// FetchGameLogPage retrieves one page of a player's season game log and the
// total page count reported by the provider.
func (c *Client) FetchGameLogPage(ctx context.Context, playerID, season, page int) ([]byte, int, error) {
	endpoint := fmt.Sprintf("/api/v1/players/%d/gamelog", playerID)
	query := url.Values{}
	query.Set("season", strconv.Itoa(season))
	query.Set("page", strconv.Itoa(page))

	entry, err := c.get(ctx, endpoint, "players/{id}/gamelog", query)
	if err != nil {
		return nil, 0, err
	}
	return entry.Body, entry.TotalPages, nil
}

// FetchProspects retrieves the raw prospect roster payload for a season.
func (c *Client) FetchProspects(ctx context.Context, season int) ([]byte, error) {
	query := url.Values{}
	query.Set("season", strconv.Itoa(season))

	entry, err := c.get(ctx, "/api/v1/prospects", "prospects", query)
	if err != nil {
		return nil, err
	}
	return entry.Body, nil
}

// get performs a GET request with rate limiting, caching, and retry.
// The route parameter is the low-cardinality endpoint label for metrics.
func (c *Client) get(ctx context.Context, endpoint, route string, query url.Values) (*cache.Entry, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(route).Observe(time.Since(startTime).Seconds())
	}()

	key := cache.Key{Endpoint: endpoint, QueryParams: query}
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err == nil {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Time("fetched_at", entry.FetchedAt).
				Msg("Payload cache hit")
			requestsTotal.WithLabelValues(route, "cached").Inc()
			return entry, nil
		}
		if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	var entry *cache.Entry

	retryErr := retryWithBackoff(ctx, c.config.MaxAttempts, func() error {
		var attemptErr error
		entry, attemptErr = c.doRequest(ctx, endpoint, route, query)
		return attemptErr
	}, Classify)
	if retryErr != nil {
		return nil, retryErr
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache payload")
		}
	}

	return entry, nil
}

// doRequest executes a single HTTP attempt and classifies any failure.
func (c *Client) doRequest(ctx context.Context, endpoint, route string, query url.Values) (*cache.Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	reqURL := c.config.BaseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		class := Classify(err)
		errorsTotal.WithLabelValues(string(class)).Inc()
		requestsTotal.WithLabelValues(route, "transport_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &APIError{
			Class:   class,
			Message: "transport failure",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		apiErr := c.classifyResponse(resp)
		errorsTotal.WithLabelValues(string(apiErr.Class)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(apiErr.Class)).
			Msg("Stats provider request error")
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	totalPages := 1
	if tp := resp.Header.Get(headerTotalPages); tp != "" {
		if n, err := strconv.Atoi(tp); err == nil && n > 0 {
			totalPages = n
		}
	}

	return &cache.Entry{
		Body:       body,
		StatusCode: resp.StatusCode,
		TotalPages: totalPages,
		FetchedAt:  time.Now(),
	}, nil
}

// classifyResponse maps a non-200 response to an APIError.
func (c *Client) classifyResponse(resp *http.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		apiErr.Class = ErrorClassRateLimit
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				apiErr.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	case resp.StatusCode == http.StatusNotFound:
		apiErr.Class = ErrorClassNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		apiErr.Class = ErrorClassMalformed
	default:
		apiErr.Class = ErrorClassNetwork
	}

	return apiErr
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
