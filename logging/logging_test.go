package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("Should suppress messages below the configured level")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("Should emit messages at or above the configured level")
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelDebug, Output: &buf})

	log.WithComponent("loader").WithField("language", "go").Info("loaded")

	out := buf.String()
	if !strings.Contains(out, "component=loader") {
		t.Errorf("Should include component field, got %q", out)
	}
	if !strings.Contains(out, "language=go") {
		t.Errorf("Should include language field, got %q", out)
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelDebug, Output: &buf})

	log.Info("loaded %d grammars", 3)

	if !strings.Contains(buf.String(), "loaded 3 grammars") {
		t.Errorf("Should format args, got %q", buf.String())
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic and must not write anywhere.
	NullLogger.Error("discarded")
	NullLogger.WithComponent("x").Debug("discarded")
}
