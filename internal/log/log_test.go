package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/formlane/formlane/internal/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	logger.Info("survey loaded", "hash", "a1b2c3")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "survey loaded" {
		t.Errorf("msg = %v, want %q", entry["msg"], "survey loaded")
	}
	if entry["hash"] != "a1b2c3" {
		t.Errorf("hash = %v, want %q", entry["hash"], "a1b2c3")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("messages below the level should be filtered, got %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn message missing, got %q", out)
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	ferr := errors.New(errors.ErrCodeAPINotFound, "survey not found")
	logger.WithError(ferr).Error("fetch failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["error_code"] != "API-004" {
		t.Errorf("error_code = %v, want API-004", entry["error_code"])
	}
}

func TestDefaultLogger_Lazy(t *testing.T) {
	SetDefaultLogger(nil)
	if DefaultLogger() == nil {
		t.Fatal("DefaultLogger should initialize lazily")
	}
}
