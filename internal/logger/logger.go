package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file and copies every line to also
func NewFileLogger(path string, also ...io.Writer) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewMultiLogger(append([]io.Writer{f}, also...)...), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(writers ...io.Writer) *Logger {
	w := io.MultiWriter(writers...)
	return New(w)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// WithBuild returns a logger that tags every line with a build ID
func (l *Logger) WithBuild(buildID string) *Logger {
	return &Logger{Logger: l.With("build", buildID)}
}

// BuildStarted logs the start of a site build
func (l *Logger) BuildStarted(contentDir, publicDir string) {
	l.Info("build started",
		"content_dir", contentDir,
		"public_dir", publicDir)
}

// BuildCompleted logs the completion of a site build
func (l *Logger) BuildCompleted(rendered, skipped, errors int, duration time.Duration) {
	l.Info("build completed",
		"pages_rendered", rendered,
		"pages_skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// PageRendered logs a successfully written page
func (l *Logger) PageRendered(source, dest string) {
	l.Info("page rendered",
		"source", source,
		"dest", dest)
}

// PageSkipped logs when a page is skipped
func (l *Logger) PageSkipped(source, reason string) {
	l.Debug("page skipped",
		"source", source,
		"reason", reason)
}

// PageError logs a conversion error for a page
func (l *Logger) PageError(source string, err error) {
	l.Error("page failed",
		"source", source,
		"error", err)
}

// StateError logs a manifest-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(contentDir, publicDir string, interval time.Duration) {
	l.Debug("config loaded",
		"content_dir", contentDir,
		"public_dir", publicDir,
		"interval", interval)
}
