package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" Error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewLoggerJSON(t *testing.T) {
	t.Setenv(EnvVarLogLevel, "")

	var buf bytes.Buffer
	logger := NewLogger(&buf, FormatJSON, "tsbutil", "v0.1.0", "info")
	logger.Info("rendered", "files", 3)
	logger.Debug("hidden")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["module"] != "tsbutil" {
		t.Errorf("module = %v, want tsbutil", entry["module"])
	}
	if entry["version"] != "v0.1.0" {
		t.Errorf("version = %v, want v0.1.0", entry["version"])
	}
	if entry["msg"] != "rendered" {
		t.Errorf("msg = %v, want rendered", entry["msg"])
	}
}

func TestNewLoggerEnvOverride(t *testing.T) {
	t.Setenv(EnvVarLogLevel, "debug")

	var buf bytes.Buffer
	logger := NewLogger(&buf, FormatText, "tsbutil", "dev", "error")
	logger.Debug("visible")

	if !bytes.Contains(buf.Bytes(), []byte("visible")) {
		t.Errorf("expected debug entry with LOG_LEVEL=debug, got %q", buf.String())
	}
}
