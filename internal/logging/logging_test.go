package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(FormatJSON, "warn", &buf)

	logger.Info("deposit_created")
	logger.Warn("deposit_failed", "deposit_id", "d1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the warn line, got %q", buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if entry["msg"] != "deposit_failed" || entry["deposit_id"] != "d1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(FormatText, "debug", &buf)

	logger.Debug("summary_cache_miss")
	if !strings.Contains(buf.String(), "summary_cache_miss") {
		t.Errorf("text output missing message: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRedaction(t *testing.T) {
	url := "postgres://fund:s3cret@db:5432/groupfund"

	if got := RedactURL(url); strings.Contains(got, "s3cret") {
		t.Errorf("RedactURL leaked password: %s", got)
	}

	msg := SanitizeError(errors.New("dial "+url+" failed password=hunter2"), url)
	if strings.Contains(msg, "s3cret") || strings.Contains(msg, "hunter2") {
		t.Errorf("SanitizeError leaked secret: %s", msg)
	}
	if SanitizeError(nil) != "" {
		t.Error("SanitizeError(nil) should be empty")
	}
}
