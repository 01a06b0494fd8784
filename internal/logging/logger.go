// Package logging configures structured logging with log/slog.
//
// Every run writes to the terminal and to a timestamped file under the log
// directory (logs/run_2006-01-02_15-04-05.log). Old run files are pruned on
// startup so the directory stays bounded.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Retention limits for the log directory.
const (
	maxLogFiles = 100
	maxLogAge   = 7 * 24 * time.Hour
)

// Setup configures the global slog logger to write to stderr and a per-run
// log file. It returns the log file path and a close function.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format, dir string) (string, func() error, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating log directory: %w", err)
	}

	cleanupOldLogs(dir)

	path := filepath.Join(dir, time.Now().Format("run_2006-01-02_15-04-05.log"))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("opening log file: %w", err)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	out := io.MultiWriter(os.Stderr, file)

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))

	return path, file.Close, nil
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// cleanupOldLogs removes run files beyond the retention limits: anything
// past the newest maxLogFiles that is also older than maxLogAge. Removal is
// best-effort; a failure never blocks the run.
func cleanupOldLogs(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	type logFile struct {
		path    string
		modTime time.Time
	}

	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{
			path:    filepath.Join(dir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	// Newest first; keep the first maxLogFiles unconditionally.
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})

	cutoff := time.Now().Add(-maxLogAge)
	for _, f := range files[min(maxLogFiles, len(files)):] {
		if f.modTime.Before(cutoff) {
			_ = os.Remove(f.path)
		}
	}
}
