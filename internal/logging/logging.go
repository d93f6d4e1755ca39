// Package logging provides the leveled, component-scoped logger used across
// the text engine. Messages are emitted through commonlog so the process
// entry point decides the backend, verbosity and destination.
package logging

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tliron/commonlog"
)

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug", "DEBUG":
		return LogLevelDebug
	case "info", "INFO":
		return LogLevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LogLevelWarn
	case "error", "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Verbosity maps a LogLevel onto commonlog's verbosity scale.
func (l LogLevel) Verbosity() int {
	switch l {
	case LogLevelDebug:
		return 2
	case LogLevelInfo:
		return 1
	case LogLevelWarn:
		return -1
	case LogLevelError:
		return -2
	default:
		return 0
	}
}

func (l LogLevel) commonlogLevel() commonlog.Level {
	switch l {
	case LogLevelDebug:
		return commonlog.Debug
	case LogLevelWarn:
		return commonlog.Warning
	case LogLevelError:
		return commonlog.Error
	default:
		return commonlog.Info
	}
}

// Logger provides structured logging for engine components.
type Logger struct {
	mu       sync.Mutex
	name     string
	level    LogLevel
	fields   map[string]any
	disabled bool
	backend  commonlog.Logger
}

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum log level to output.
	Level LogLevel
	// Name is the commonlog logger path (dot separated).
	Name string
	// Backend overrides the commonlog logger. Mainly useful in tests.
	Backend commonlog.Logger
}

// DefaultLoggerConfig returns the default logger configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level: LogLevelInfo,
		Name:  "textcore",
	}
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggerConfig) *Logger {
	if cfg.Name == "" {
		cfg.Name = "textcore"
	}
	backend := cfg.Backend
	if backend == nil {
		backend = commonlog.GetLogger(cfg.Name)
	}
	return &Logger{
		name:    cfg.Name,
		level:   cfg.Level,
		fields:  make(map[string]any),
		backend: backend,
	}
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &Logger{
		name:     l.name,
		level:    l.level,
		fields:   newFields,
		disabled: l.disabled,
		backend:  l.backend,
	}
}

// WithComponent returns a new logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Disable disables all logging.
func (l *Logger) Disable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = true
}

// Enable enables logging.
func (l *Logger) Enable() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disabled = false
}

// Enabled reports whether messages at level would be emitted.
func (l *Logger) Enabled(level LogLevel) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.disabled && l.backend != nil && level >= l.level
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

// log forwards a message to the backend if the level is enabled.
func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if l == nil {
		return
	}

	l.mu.Lock()
	if l.disabled || l.backend == nil || level < l.level {
		l.mu.Unlock()
		return
	}
	backend := l.backend
	keysAndValues := l.keysAndValues()
	l.mu.Unlock()

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	backend.Log(level.commonlogLevel(), 1, msg, keysAndValues...)
}

// keysAndValues flattens the fields in key order. Caller holds l.mu.
func (l *Logger) keysAndValues() []any {
	if len(l.fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, l.fields[k])
	}
	return kv
}

// NullLogger is a logger that discards all output.
var NullLogger = &Logger{disabled: true, fields: map[string]any{}}

// appLogger is the process-wide logger instance.
var (
	appLogger   *Logger
	appLoggerMu sync.Mutex
)

// GetLogger returns the process-wide logger.
// Creates a default logger on first call if not set.
func GetLogger() *Logger {
	appLoggerMu.Lock()
	defer appLoggerMu.Unlock()
	if appLogger == nil {
		appLogger = NewLogger(DefaultLoggerConfig())
	}
	return appLogger
}

// SetLogger sets the process-wide logger.
// Should be called early in program startup.
func SetLogger(l *Logger) {
	appLoggerMu.Lock()
	defer appLoggerMu.Unlock()
	appLogger = l
}

// Configure initializes the commonlog backend and installs a process-wide
// logger at the given level. An empty path logs to stderr.
func Configure(level LogLevel, path string) *Logger {
	if path == "" {
		commonlog.Configure(level.Verbosity(), nil)
	} else {
		commonlog.Configure(level.Verbosity(), &path)
	}
	l := NewLogger(LoggerConfig{Level: level, Name: "textcore"})
	SetLogger(l)
	return l
}
