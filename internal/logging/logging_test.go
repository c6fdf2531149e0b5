package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)

	logger.Info("user logged in", "username", "alice")

	output := buf.String()
	if !strings.Contains(output, "user logged in") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, "username=alice") {
		t.Errorf("expected 'username=alice' in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "json", &buf)

	logger.Info("user logged in", "username", "alice")

	output := buf.String()
	if !strings.Contains(output, `"msg":"user logged in"`) {
		t.Errorf("expected JSON msg field in output, got: %s", output)
	}
	if !strings.Contains(output, `"username":"alice"`) {
		t.Errorf("expected JSON username field in output, got: %s", output)
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Info("should not appear")
	logger.Warn("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Errorf("INFO message should be filtered at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "should appear") {
		t.Errorf("WARN message should appear at WARN level, got: %s", output)
	}
}

func TestNewLoggerWithWriter_TokenAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelDebug, "text", &buf).With("component", "session")

	logger.Debug("token stored", Token("eyJhbGciOiJIUzI1NiJ9.payload.signature"))

	output := buf.String()
	if !strings.Contains(output, "component=session") {
		t.Errorf("expected component in output, got: %s", output)
	}
	if strings.Contains(output, "payload") {
		t.Errorf("token leaked into log output: %s", output)
	}
	if !strings.Contains(output, "token=eyJhbGciOi...ature") {
		t.Errorf("expected redacted token in output, got: %s", output)
	}
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "***"},
		{"exactly15chars!", "***"},
		{"0123456789abcdefXYZ12", "0123456789...XYZ12"},
	}
	for _, tt := range tests {
		if got := RedactToken(tt.in); got != tt.want {
			t.Errorf("RedactToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
