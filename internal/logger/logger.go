package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown values map to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// ValidLevel reports whether s names one of the supported levels.
func ValidLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// Logger is a leveled logger carrying a prefix and key/value fields.
// Derived loggers share the parent's output lock.
type Logger struct {
	mu       *sync.Mutex
	out      io.Writer
	level    Level
	prefix   string
	fields   map[string]any
	colorize bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the output destination.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.out = w
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithPrefix sets a prefix for log messages.
func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.prefix = prefix
	}
}

// WithColors enables or disables colorized output.
func WithColors(enabled bool) Option {
	return func(l *Logger) {
		l.colorize = enabled
	}
}

// New creates a new Logger with the given options.
func New(opts ...Option) *Logger {
	l := &Logger{
		mu:       &sync.Mutex{},
		out:      os.Stdout,
		level:    INFO,
		fields:   map[string]any{},
		colorize: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide default logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func (l *Logger) derive(prefix string, fields map[string]any) *Logger {
	return &Logger{
		mu:       l.mu,
		out:      l.out,
		level:    l.level,
		prefix:   prefix,
		fields:   fields,
		colorize: l.colorize,
	}
}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new logger with the given fields added.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return l.derive(l.prefix, merged)
}

// WithPrefix returns a new logger with the given prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return l.derive(prefix, l.fields)
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	sb.WriteByte(' ')
	if l.colorize {
		sb.WriteString(colorize(level))
	} else {
		fmt.Fprintf(&sb, "%-5s", level.String())
	}
	sb.WriteByte(' ')

	if l.prefix != "" {
		sb.WriteString("[" + l.prefix + "] ")
	}

	if _, file, line, ok := runtime.Caller(2); ok {
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		fmt.Fprintf(&sb, "[%s:%d] ", file, line)
	}

	if len(args) > 0 {
		fmt.Fprintf(&sb, msg, args...)
	} else {
		sb.WriteString(msg)
	}

	// Sorted so identical field sets always render identically.
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, l.fields[k])
		}
	}
	sb.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, sb.String())
}

func colorize(level Level) string {
	var color string
	switch level {
	case DEBUG:
		color = "\033[36m"
	case INFO:
		color = "\033[32m"
	case WARN:
		color = "\033[33m"
	case ERROR:
		color = "\033[31m"
	default:
		color = "\033[0m"
	}
	return fmt.Sprintf("%s%-5s\033[0m", color, level.String())
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(DEBUG, msg, args...)
}

// Info logs a message at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.log(INFO, msg, args...)
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(WARN, msg, args...)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.log(ERROR, msg, args...)
}

// Package-level functions that use the default logger.

func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }

type ctxKey struct{}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
			return l
		}
	}
	return Default()
}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}
