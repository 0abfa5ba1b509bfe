package lib

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel defines the severity of log messages
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Logger provides structured logging for the application.
// Fields are passed as alternating key/value pairs.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a logger writing human-readable lines to stderr
func NewLogger(level LogLevel) *Logger {
	return NewLoggerWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
}

// NewLoggerWithWriter creates a logger writing to w.
// Pass a plain writer to get JSON lines (useful in tests).
func NewLoggerWithWriter(level LogLevel, w io.Writer) *Logger {
	return &Logger{
		logger: zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger(),
	}
}

// Zerolog exposes the underlying zerolog logger for integrations such as
// HTTP middleware
func (l *Logger) Zerolog() zerolog.Logger {
	return l.logger
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...interface{}) {
	l.log(l.logger.Debug(), message, fields...)
}

// Info logs an informational message
func (l *Logger) Info(message string, fields ...interface{}) {
	l.log(l.logger.Info(), message, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...interface{}) {
	l.log(l.logger.Warn(), message, fields...)
}

// Error logs an error message
func (l *Logger) Error(message string, fields ...interface{}) {
	l.log(l.logger.Error(), message, fields...)
}

func (l *Logger) log(evt *zerolog.Event, message string, fields ...interface{}) {
	if evt == nil {
		return // level disabled
	}
	if len(fields) > 0 {
		evt = evt.Fields(fields)
	}
	evt.Msg(message)
}

// SetLevel changes the log level
func (l *Logger) SetLevel(level LogLevel) {
	l.logger = l.logger.Level(level.zerolog())
}

func (level LogLevel) zerolog() zerolog.Level {
	switch level {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLogLevel converts a string to LogLevel
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// LogOperation logs the start and completion of an operation
func LogOperation(logger *Logger, operation string, fn func() error) error {
	logger.Info(fmt.Sprintf("Starting: %s", operation))
	start := time.Now()

	err := fn()

	duration := time.Since(start)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed: %s", operation), "duration", duration, "error", err)
		return err
	}

	logger.Info(fmt.Sprintf("Completed: %s", operation), "duration", duration)
	return nil
}

// LogRetry logs retry attempts
func LogRetry(logger *Logger, operation string, attempt int, maxAttempts int, err error) {
	// Remove line breaks from operation to prevent log spoofing
	safeOperation := strings.ReplaceAll(operation, "\n", "")
	safeOperation = strings.ReplaceAll(safeOperation, "\r", "")
	logger.Warn(
		fmt.Sprintf("Retry attempt %d/%d for: %s", attempt+1, maxAttempts, safeOperation),
		"error", err,
	)
}

// LogFetchStarted logs the start of a patient fetch
func LogFetchStarted(logger *Logger, fetchID string, url string) {
	logger.Info(
		"Fetch started",
		"fetch_id", fetchID,
		"url", url,
	)
}

// LogFetchCompleted logs a fetch whose result was applied to the store
func LogFetchCompleted(logger *Logger, fetchID string, patients int, duration time.Duration) {
	logger.Info(
		"Fetch completed",
		"fetch_id", fetchID,
		"patients", patients,
		"duration", duration,
	)
}

// LogFetchFailed logs a fetch that ended in an error
func LogFetchFailed(logger *Logger, fetchID string, err error, retryable bool) {
	logger.Error(
		"Fetch failed",
		"fetch_id", fetchID,
		"error", err,
		"retryable", retryable,
	)
}

// LogFetchSuperseded logs a fetch result dropped because a newer fetch started
func LogFetchSuperseded(logger *Logger, fetchID string, latestID string) {
	logger.Debug(
		"Fetch result superseded",
		"fetch_id", fetchID,
		"latest_fetch_id", latestID,
	)
}

// LogServiceCall logs HTTP service calls
func LogServiceCall(logger *Logger, service string, endpoint string, method string) {
	logger.Debug(
		"Service call",
		"service", service,
		"endpoint", endpoint,
		"method", method,
	)
}

// LogServiceResponse logs HTTP service responses
func LogServiceResponse(logger *Logger, service string, statusCode int, duration time.Duration) {
	if statusCode >= 400 {
		logger.Warn(
			"Service response",
			"service", service,
			"status", statusCode,
			"duration", duration,
		)
	} else {
		logger.Debug(
			"Service response",
			"service", service,
			"status", statusCode,
			"duration", duration,
		)
	}
}
