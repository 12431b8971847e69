package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/julienv/daygate/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  zerolog.Level
	}{
		{"debug", "debug", zerolog.DebugLevel},
		{"info", "info", zerolog.InfoLevel},
		{"warn", "warn", zerolog.WarnLevel},
		{"warning alias", "warning", zerolog.WarnLevel},
		{"error", "error", zerolog.ErrorLevel},
		{"fatal", "fatal", zerolog.FatalLevel},
		{"mixed case", "DeBuG", zerolog.DebugLevel},
		{"unknown defaults to info", "loud", zerolog.InfoLevel},
		{"empty defaults to info", "", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "json",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("New() returned nil")
	}

	// Derived loggers must not be nil either
	if log.WithField("k", "v") == nil {
		t.Error("WithField() returned nil")
	}
	if log.WithFields(map[string]interface{}{"a": 1, "b": 2}) == nil {
		t.Error("WithFields() returned nil")
	}
}

func TestNewConsoleFormat(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "console",
	}

	log := New(cfg)
	if log == nil {
		t.Fatal("New() returned nil for console format")
	}
}
