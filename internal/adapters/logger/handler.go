package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every pretty log line.
const Prefix = "stevedore"

// NewPrettyHandler creates a human-readable, colored slog.Handler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if opts != nil && opts.Level != nil {
		level = log.Level(opts.Level.Level())
	}

	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: Prefix,
	})
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}
