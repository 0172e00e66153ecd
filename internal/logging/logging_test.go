package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		verbose, debug bool
		want           slog.Level
	}{
		{false, false, slog.LevelWarn},
		{true, false, slog.LevelInfo},
		{false, true, slog.LevelDebug},
		{true, true, slog.LevelDebug},
	}
	for _, tt := range tests {
		if got := LevelFromFlags(tt.verbose, tt.debug); got != tt.want {
			t.Errorf("LevelFromFlags(%v, %v) = %v, want %v", tt.verbose, tt.debug, got, tt.want)
		}
	}
}

func TestHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, slog.LevelWarn))

	logger.Info("quiet message")
	logger.Warn("loud message", "path", "report.json")

	out := buf.String()
	if strings.Contains(out, "quiet message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "loud message") || !strings.Contains(out, "path=report.json") {
		t.Errorf("warn message missing from output: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal output should not contain color codes")
	}
}

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Init(&buf, slog.LevelDebug)
	slog.Debug("debug enabled")

	if !strings.Contains(buf.String(), "debug enabled") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}
