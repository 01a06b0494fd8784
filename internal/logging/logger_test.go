package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSetup_WritesRunFile(t *testing.T) {
	dir := t.TempDir()

	path, closeFn, err := Setup("info", "text", dir)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	slog.Info("hello from test", "key", "value")
	if err := closeFn(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing entry, got: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()

	// An old file beyond both retention limits would need >100 newer files;
	// easier to verify the age guard alone keeps files under the count cap.
	old := filepath.Join(dir, "run_old.log")
	if err := os.WriteFile(old, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-30 * 24 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	cleanupOldLogs(dir)

	// Within the file-count cap, even ancient files survive.
	if _, err := os.Stat(old); err != nil {
		t.Errorf("old log inside count cap was removed: %v", err)
	}
}
