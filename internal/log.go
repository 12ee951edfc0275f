// Package internal carries the engine's cross-cutting runtime pieces,
// starting with the leveled logger shared by the services, adapters, and
// HTTP surfaces.
package internal

import (
	"log"
	"os"
	"strings"
)

// LogLevel orders verbosity from quietest to noisiest.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG"}

// ParseLogLevel reads a level name case-insensitively. Unknown names fall
// back to info so a typo in LOG_LEVEL never silences the engine.
func ParseLogLevel(name string) LogLevel {
	for i, n := range levelNames {
		if strings.EqualFold(name, n) {
			return LogLevel(i)
		}
	}
	return LogLevelInfo
}

// Logger filters printf-style messages by level. Escalations and failed
// saves log at Warn and Error; per-round routing detail stays at Info and
// below so a quiet production level still shows every intervention.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a logger at a fixed level, writing to stderr.
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

// NewDefaultLogger reads the level from the LOG_LEVEL environment variable,
// defaulting to info.
func NewDefaultLogger() *Logger {
	return NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if level > l.level {
		return
	}
	l.out.Printf("["+levelNames[level]+"] "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) { l.logf(LogLevelError, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(LogLevelWarn, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(LogLevelInfo, format, args...) }
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LogLevelDebug, format, args...) }

// DefaultLogger is the process-wide logger used by the entrypoints.
var DefaultLogger = NewDefaultLogger()
