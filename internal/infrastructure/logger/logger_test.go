package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithOutputWritesJSON(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithOutput(Config{Level: "info", Format: "json"}, &buf)
	log.Info().Str("account_id", "acc-1").Msg("entry posted")

	output := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Fatalf("expected json output, got %q", output)
	}
	if !strings.Contains(output, `"account_id":"acc-1"`) {
		t.Fatalf("expected structured field in output, got %q", output)
	}
}

func TestNewWithOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer

	log := NewWithOutput(Config{Level: "error", Format: "json"}, &buf)
	log.Info().Msg("should be filtered")

	if buf.Len() != 0 {
		t.Fatalf("expected info log to be filtered at error level, got %q", buf.String())
	}
}
