// Package observability provides the ambient logging and metrics surface
// shared by every other package in the module: a leveled logger modeled on
// the teacher's liveview/logger.go, and a small set of Prometheus
// collectors consumed by the transport package.
package observability

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/getsentry/sentry-go"
)

// LogLevel orders log severities from most to least verbose.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

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

// Logger is a leveled, prefixed wrapper around the standard library logger.
// Error-level entries are additionally forwarded to Sentry when a hub has
// been attached via SetSentryHub, the way the pack's sentry_reporter.go
// forwards reporter calls to a *sentry.Hub.
type Logger struct {
	mu        sync.RWMutex
	level     LogLevel
	prefix    string
	out       *log.Logger
	sentryHub *sentry.Hub
}

// New creates a Logger writing to stderr with the given prefix.
func New(prefix string) *Logger {
	return &Logger{
		level:  LogLevelInfo,
		prefix: prefix,
		out:    log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetSentryHub attaches a Sentry hub that Error-level log entries are
// forwarded to as messages, tagged with the logger's prefix.
func (l *Logger) SetSentryHub(hub *sentry.Hub) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sentryHub = hub
}

// SetLevel adjusts the minimum level that is actually written.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetDebug is a convenience toggle matching the host's debug_enabled() flag.
func (l *Logger) SetDebug(debug bool) {
	if debug {
		l.SetLevel(LogLevelDebug)
	} else {
		l.SetLevel(LogLevelInfo)
	}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.RLock()
	min := l.level
	prefix := l.prefix
	hub := l.sentryHub
	l.mu.RUnlock()

	if level < min {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.out.Printf("%s [%s] %s", prefix, level, msg)

	if level == LogLevelError && hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("logger", prefix)
			hub.CaptureMessage(msg)
		})
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LogLevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LogLevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LogLevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LogLevelError, format, args...) }

var (
	defaultOnce sync.Once
	defaultLog  *Logger
)

// Default returns the process-wide logger, initializing it on first use.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLog = New("[lively]")
	})
	return defaultLog
}
