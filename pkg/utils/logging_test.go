package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected LogLevel
		wantErr  bool
	}{
		{name: "debug level", input: "DEBUG", expected: DEBUG},
		{name: "info level", input: "INFO", expected: INFO},
		{name: "warn level", input: "WARN", expected: WARN},
		{name: "warning level", input: "WARNING", expected: WARN},
		{name: "error level", input: "ERROR", expected: ERROR},
		{name: "case insensitive", input: "debug", expected: DEBUG},
		{name: "invalid level", input: "INVALID", expected: INFO, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if result != tt.expected {
				t.Errorf("ParseLogLevel() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLogLevelSlogLevel(t *testing.T) {
	tests := map[LogLevel]slog.Level{
		DEBUG: slog.LevelDebug,
		INFO:  slog.LevelInfo,
		WARN:  slog.LevelWarn,
		ERROR: slog.LevelError,
	}
	for level, want := range tests {
		if got := level.SlogLevel(); got != want {
			t.Errorf("%s.SlogLevel() = %v, want %v", level, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("text output respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := NewLogger(LoggerConfig{Level: "WARN", Output: &buf})
		if err != nil {
			t.Fatalf("NewLogger() error = %v", err)
		}
		defer closer.Close()

		logger.Info("hidden")
		logger.Warn("shown", "path", "a.txt")

		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info message should be filtered, got %q", out)
		}
		if !strings.Contains(out, "shown") || !strings.Contains(out, "path=a.txt") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := NewLogger(LoggerConfig{Level: "DEBUG", Format: "json", Output: &buf})
		if err != nil {
			t.Fatalf("NewLogger() error = %v", err)
		}
		defer closer.Close()

		logger.Debug("listing", "prefix", "dir/")

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not json: %v (%q)", err, buf.String())
		}
		if entry["msg"] != "listing" || entry["prefix"] != "dir/" {
			t.Errorf("unexpected entry %v", entry)
		}
	})

	t.Run("file output", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "bosfs.log")
		logger, closer, err := NewLogger(LoggerConfig{Level: "INFO", File: file})
		if err != nil {
			t.Fatalf("NewLogger() error = %v", err)
		}
		logger.Info("written")
		if err := closer.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		if _, _, err := NewLogger(LoggerConfig{Level: "LOUD"}); err == nil {
			t.Error("expected error for invalid level")
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		if _, _, err := NewLogger(LoggerConfig{Level: "INFO", Format: "xml"}); err == nil {
			t.Error("expected error for invalid format")
		}
	})
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.input); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
