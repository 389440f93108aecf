// Package log wraps github.com/charmbracelet/log for the engine's
// warning-severity events: degraded before/after positions,
// reference-copy failures, and the interactive-strategy fallback.
package log

import (
	"fmt"
	"io"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Logger embeds the charmbracelet logger so callers get its full
// structured-logging API (With, Warn, Error, ...) through this package's
// own type.
type Logger struct {
	*charmlog.Logger
}

// Config selects the output level, format, and destination for a
// Logger.
type Config struct {
	Level           string
	Format          string // "text" or "json"
	Output          io.Writer
	ReportCaller    bool
	ReportTimestamp bool
}

// New builds a Logger from cfg. An empty Level defaults to "info"; an
// unrecognized Level is a configuration error.
func New(cfg Config) (*Logger, error) {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}

	opts := charmlog.Options{
		ReportCaller:    cfg.ReportCaller,
		ReportTimestamp: cfg.ReportTimestamp,
	}
	if strings.EqualFold(cfg.Format, "json") {
		opts.Formatter = charmlog.JSONFormatter
	}

	l := charmlog.NewWithOptions(out, opts)

	levelStr := cfg.Level
	if strings.TrimSpace(levelStr) == "" {
		levelStr = "info"
	}
	level, err := charmlog.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("log: invalid level %q: %w", cfg.Level, err)
	}
	l.SetLevel(level)

	return &Logger{Logger: l}, nil
}

// Noop returns a Logger that discards everything, used as the engine's
// default when the caller constructs it with no logger.
func Noop() *Logger {
	l, err := New(Config{Output: io.Discard, Level: "fatal"})
	if err != nil {
		// "fatal" is always a valid charmlog level; this path is
		// unreachable, but panic loudly rather than return a nil
		// logger if that ever stops being true.
		panic(err)
	}
	return l
}
