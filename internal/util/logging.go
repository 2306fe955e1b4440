// Package util provides common utilities including logging helpers,
// file system operations, and string manipulation functions.
package util

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Logger returns the process-wide structured logger.
func Logger() *slog.Logger {
	return logger
}

// SetLogger replaces the process-wide logger. Tests use it to capture output.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// OpenLogFile points the process-wide logger at a JSON log file and returns
// the file so the caller can close it on exit. The display owns the terminal,
// so nothing is logged to stdout or stderr.
func OpenLogFile(path, level string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: ParseLevel(level)})
	logger = slog.New(handler).With(slog.String("service", "integrity"))
	return f, nil
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// LogError logs an error with context if it is non-nil.
func LogError(context string, err error) {
	if err != nil {
		logger.Error(context, slog.Any("error", err))
	}
}
