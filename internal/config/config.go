// Package config defines collector configuration and its loading order.
package config

// Config contains process configuration for one collection invocation.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Pretty enables human-readable console log output.
	Pretty bool `koanf:"pretty"`

	// LogDir is where per-partition log files are written.
	LogDir string `koanf:"log_dir"`

	// BaseURL of the stats provider.
	BaseURL string `koanf:"base_url"`

	// UserAgent sent on every provider request.
	UserAgent string `koanf:"user_agent"`

	// RequestTimeoutSec is the per-request timeout in seconds.
	RequestTimeoutSec int `koanf:"request_timeout_sec"`

	// RequestsPerSecond and Burst configure client-side pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// Connection pool ceilings.
	MaxIdleConns    int `koanf:"max_idle_conns"`
	MaxConnsPerHost int `koanf:"max_conns_per_host"`

	// MaxAttempts bounds retries per request, including the first call.
	MaxAttempts int `koanf:"max_attempts"`

	// Workers bounds concurrent entity processing.
	Workers int `koanf:"workers"`

	// ProgressEvery emits a progress line every N processed entities.
	ProgressEvery int `koanf:"progress_every"`

	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// RedisAddr enables the upstream payload cache when non-empty.
	RedisAddr string `koanf:"redis_addr"`

	// CacheTTLSec is the payload cache entry lifetime in seconds.
	CacheTTLSec int `koanf:"cache_ttl_sec"`

	// Completeness selects the enumerator's completeness rule:
	// "appearances" or "pitches".
	Completeness string `koanf:"completeness"`
}

// Default returns the defaults applied before file and env layering.
func Default() *Config {
	return &Config{
		LogLevel:          "info",
		LogDir:            ".",
		BaseURL:           "https://stats.milbdata.example.com",
		UserAgent:         "milb-ingest/1.0 (prospectlab)",
		RequestTimeoutSec: 30,
		RequestsPerSecond: 5,
		Burst:             5,
		MaxIdleConns:      10,
		MaxConnsPerHost:   5,
		MaxAttempts:       3,
		Workers:           5,
		ProgressEvery:     25,
		DBPath:            "milb.db",
		CacheTTLSec:       900,
		Completeness:      "appearances",
	}
}
