// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// OpenPartitionLog opens (appending) the log file for one (season, role)
// collection partition, e.g. collect-2024-pitcher.log. The file always
// receives JSON lines; combine it with a console writer via
// zerolog.MultiLevelWriter.
func OpenPartitionLog(dir string, season int, role string) (*os.File, error) {
	name := fmt.Sprintf("collect-%d-%s.log", season, role)
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Per-page fetch results and cache operations
//   - Backoff timing between retry attempts
//   - Per-entity extraction counts
//
// Info: Normal operation events
//   - Run start/end with partition parameters
//   - Periodic collection progress lines
//   - Write summaries (inserted/skipped counts)
//
// Warn: Warning conditions that don't prevent operation
//   - Retry attempts and rate-limit backoffs
//   - Cache errors (fallback to direct request)
//   - Entities skipped due to permanent upstream errors
//
// Error: Error conditions requiring attention
//   - Entities failed after retry exhaustion
//   - Store write failures (fatal to the run)
//   - Configuration errors
//
// Context Fields:
//   - run_id: Collection run identifier
//   - player_id, season, role: Entity being collected
//   - endpoint, status_code, duration: Request details
//   - error_class: Error classification (timeout, rate_limit, network, not_found, malformed)
//   - attempt: Retry attempt number
