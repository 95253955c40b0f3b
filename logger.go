package blockio

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with blockio-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithID adds a file identity field to the logger.
func (l *Logger) WithID(id int) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// LogOpen logs an open operation.
func (l *Logger) LogOpen(path string, id int, err error) {
	if err != nil {
		l.Error("open failed",
			"path", path,
			"error", err,
		)
	} else {
		l.Debug("open completed",
			"path", path,
			"id", id,
		)
	}
}

// LogRead logs a read operation. async marks completions delivered out of band.
func (l *Logger) LogRead(bytesRead int, async bool, err error) {
	if err != nil {
		l.Error("read failed",
			"async", async,
			"error", err,
		)
	} else {
		l.Debug("read completed",
			"async", async,
			"bytes", bytesRead,
		)
	}
}

// LogWrite logs a write operation.
func (l *Logger) LogWrite(bytesWritten int, async bool) {
	l.Debug("write completed",
		"async", async,
		"bytes", bytesWritten,
	)
}

// LogClose logs a close operation.
func (l *Logger) LogClose(err error) {
	if err != nil {
		l.Error("close failed",
			"error", err,
		)
	} else {
		l.Debug("close completed")
	}
}
