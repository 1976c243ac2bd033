// Package logging provides a logging abstraction layer that decouples the
// application from the underlying logging framework. Components receive a
// Logger instead of reaching for a process-wide logger.
package logging

// Logger defines the interface for structured logging throughout the application.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// NopLogger is a Logger that discards everything. Useful as a test default.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)             {}
func (NopLogger) Info(string, ...Field)              {}
func (NopLogger) Warn(string, ...Field)              {}
func (NopLogger) Error(string, ...Field)             {}
func (n NopLogger) WithError(error) Logger           { return n }
func (n NopLogger) WithField(string, interface{}) Logger { return n }
func (n NopLogger) WithFields(...Field) Logger       { return n }
