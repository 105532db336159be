// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/javila-dev/lyvio-plaftorm/internal/core/ports"
)

// FormatEnv selects the initial log format. "json" starts in JSON mode so that a
// container entrypoint logs structured records before flags are parsed.
const FormatEnv = "STEVEDORE_LOG_FORMAT"

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	jsonMode bool
	output   io.Writer
}

// New creates a Logger writing to stderr in the format FormatEnv selects.
func New() ports.Logger {
	l := &Logger{output: os.Stderr, jsonMode: os.Getenv(FormatEnv) == "json"}
	l.rebuild()
	return l
}

// SetOutput updates the logger's output destination. A nil w means stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonMode = enable
	l.rebuild()
}

// rebuild replaces the handler. Callers hold mu.
func (l *Logger) rebuild() {
	if l.output == nil {
		l.output = os.Stderr
	}
	l.logger = slog.New(newHandler(l.output, l.jsonMode))
	if l.jsonMode {
		// Supervisor and worker records interleave on the same stream.
		l.logger = l.logger.With(slog.String("component", Prefix), slog.Int("pid", os.Getpid()))
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain. JSON records keep the chain as a list of
// causes with their metadata.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}
	entries := collectErrorEntries(err)
	if len(entries) == 0 {
		entries = []ErrorEntry{{Message: err.Error()}}
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.jsonMode {
		l.logger.Error("operation failed", slog.String("error", entries[0].Message), slog.Any("causes", entries))
		return
	}
	l.logger.Error(formatErrorEntries(entries))
}
