package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// Logger defines a minimal logging contract compatible with go-logger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// FieldsLogger allows attaching structured fields to a logger.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// With attaches fields when lgr supports them and returns lgr unchanged otherwise.
func With(lgr Logger, fields map[string]any) Logger {
	if lgr == nil {
		return Nop()
	}
	if fl, ok := lgr.(FieldsLogger); ok && len(fields) > 0 {
		return fl.WithFields(fields)
	}
	return lgr
}

// BasicLogger writes logs to a writer using fmt.Fprintf.
type BasicLogger struct {
	Writer io.Writer
	Name   string
	fields map[string]any
	mu     sync.Mutex
}

// NewBasicLogger constructs a BasicLogger that logs to stderr by default.
func NewBasicLogger(name string) *BasicLogger {
	return &BasicLogger{
		Writer: os.Stderr,
		Name:   name,
	}
}

// WithFields implements FieldsLogger.
func (l *BasicLogger) WithFields(fields map[string]any) Logger {
	if l == nil {
		return &BasicLogger{Writer: os.Stderr, fields: copyFields(fields)}
	}
	if len(fields) == 0 {
		return l
	}
	merged := copyFields(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &BasicLogger{
		Writer: l.Writer,
		Name:   l.Name,
		fields: merged,
	}
}

// WithContext implements Logger.
func (l *BasicLogger) WithContext(context.Context) Logger {
	return l
}

// Trace implements Logger.
func (l *BasicLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }

// Debug implements Logger.
func (l *BasicLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }

// Info implements Logger.
func (l *BasicLogger) Info(msg string, args ...any) { l.log("INFO", msg, args...) }

// Warn implements Logger.
func (l *BasicLogger) Warn(msg string, args ...any) { l.log("WARN", msg, args...) }

// Error implements Logger.
func (l *BasicLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }

// Fatal logs at FATAL level. It does not exit the process.
func (l *BasicLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *BasicLogger) log(level string, msg string, args ...any) {
	if l == nil {
		return
	}
	out := l.Writer
	if out == nil {
		out = os.Stderr
	}
	combined := append(fieldsToArgs(l.fields), args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Name != "" {
		fmt.Fprintf(out, "[%s] %s: %s %v\n", level, l.Name, msg, combined)
		return
	}
	fmt.Fprintf(out, "[%s] %s %v\n", level, msg, combined)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Trace(string, ...any) {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Fatal(string, ...any) {}
func (n nopLogger) WithContext(context.Context) Logger { return n }

func copyFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = value
	}
	return out
}

// fieldsToArgs flattens fields in key order so output is stable.
func fieldsToArgs(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

var _ Logger = (*BasicLogger)(nil)
var _ FieldsLogger = (*BasicLogger)(nil)
var _ Logger = nopLogger{}
