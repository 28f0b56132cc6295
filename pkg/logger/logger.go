package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is a printf-style facade over slog.
type Logger struct {
	base *slog.Logger
}

// New returns a JSON logger writing to stdout.
func New() *Logger {
	return NewWithWriter(os.Stdout, false)
}

// NewDevelopment returns a human readable logger with debug output enabled.
func NewDevelopment() *Logger {
	return NewWithWriter(os.Stdout, true)
}

func NewWithWriter(w io.Writer, text bool) *Logger {
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{base: slog.New(handler)}
}

// With returns a child logger that attaches the given key/value pairs to
// every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{base: l.base.With(args...)}
}

func (l *Logger) Debug(format string, v ...any) {
	l.base.Debug(fmt.Sprintf(format, v...))
}

func (l *Logger) Info(format string, v ...any) {
	l.base.Info(fmt.Sprintf(format, v...))
}

func (l *Logger) Warn(format string, v ...any) {
	l.base.Warn(fmt.Sprintf(format, v...))
}

func (l *Logger) Error(format string, v ...any) {
	l.base.Error(fmt.Sprintf(format, v...))
}

// Printf lets the logger serve as a gorm logger writer.
func (l *Logger) Printf(format string, v ...any) {
	l.Info(format, v...)
}
