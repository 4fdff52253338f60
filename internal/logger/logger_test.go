// ABOUTME: Tests for the slog-backed logger.
// ABOUTME: Checks level filtering, named components, and level parsing.
package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "shown", String("table", "records"), Int("rows", 3))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "table=records") || !strings.Contains(out, "rows=3") {
		t.Errorf("missing info message or fields: %s", out)
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug).Named("tablestore")

	log.Warn(context.Background(), "slow", Error(errors.New("boom")))

	out := buf.String()
	if !strings.Contains(out, "component=tablestore") {
		t.Errorf("missing component: %s", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("missing error field: %s", out)
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "nothing to see")
	if log.Named("x") == nil {
		t.Error("Named on Nop returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
