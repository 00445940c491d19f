package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config mirrors the LOG_* environment variables.
type Config struct {
	Level     string
	Format    string
	Directory string
	AddSource bool
}

// ParseLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

// New builds a text or json logger writing to w, stdout when w is nil.
func New(w io.Writer, cfg Config) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level), AddSource: cfg.AddSource}
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Open builds the process logger. Records go to stdout and, when Directory is
// set, to a YYYY-MM-DD.log file (UTC date of now) appended in that
// directory. The std log package and echo's logger are pointed at the same
// writer. Close the returned closer on shutdown.
func Open(cfg Config, now time.Time) (*slog.Logger, io.Closer, error) {
	var (
		writer io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if dir := strings.TrimSpace(cfg.Directory); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		name := filepath.Join(dir, now.UTC().Format(time.DateOnly)+".log")
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writer = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")
	return New(writer, cfg), closer, nil
}
