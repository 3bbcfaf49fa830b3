package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level to be Info, got %s", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("Expected default pretty to be false")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel}, // Should default to Info
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSetup_WritesToOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Output: buf})

	logger.Info().Int("player_id", 669387).Msg("entity written")

	output := buf.String()
	if !strings.Contains(output, "entity written") {
		t.Errorf("Expected output to contain message, got %q", output)
	}
	if !strings.Contains(output, "669387") {
		t.Errorf("Expected output to contain player_id field, got %q", output)
	}
}

func TestNewLogger_ComponentField(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("pipeline")
	logger.Info().Msg("run starting")

	output := buf.String()
	if !strings.Contains(output, "pipeline") {
		t.Errorf("Expected output to contain component name, got %q", output)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelWarn, Output: buf})

	logger := NewLogger("test")
	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")
	logger.Error().Msg("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("Messages below warn level should be filtered, got %q", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("Warn and error messages should be included, got %q", output)
	}
}

func TestOpenPartitionLog(t *testing.T) {
	dir := t.TempDir()

	f, err := OpenPartitionLog(dir, 2024, "pitcher")
	if err != nil {
		t.Fatalf("OpenPartitionLog failed: %v", err)
	}
	defer f.Close()

	want := filepath.Join(dir, "collect-2024-pitcher.log")
	if f.Name() != want {
		t.Errorf("Log file = %s, want %s", f.Name(), want)
	}

	// Appending across two opens must not truncate
	if _, err := f.WriteString("first line\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	f2, err := OpenPartitionLog(dir, 2024, "pitcher")
	if err != nil {
		t.Fatalf("second OpenPartitionLog failed: %v", err)
	}
	defer f2.Close()
	if _, err := f2.WriteString("second line\n"); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "first line") || !strings.Contains(string(data), "second line") {
		t.Errorf("Expected both lines in log file, got %q", string(data))
	}
}
