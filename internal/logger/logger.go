// Package logger provides leveled logging on top of the standard log
// package: debug, info, warn, and error levels with simple filtering.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs are voluminous and usually disabled in production.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual human review.
	WarnLevel
	// ErrorLevel logs are high-priority; a smoothly running process should produce none.
	ErrorLevel
)

// Logger filters log lines by level before handing them to a std logger.
type Logger struct {
	level  Level
	logger *log.Logger
}

// defaultLogger serves the package-level functions. Before Init it logs at
// InfoLevel to stderr.
var defaultLogger = &Logger{
	level:  InfoLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
}

// Init replaces the default logger with one at the given level. format
// "text" adds caller file/line to each entry; anything else keeps the
// compact form.
func Init(level string, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}

	defaultLogger = &Logger{
		level:  parseLevel(level),
		logger: log.New(os.Stderr, "", flags),
	}
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l *Logger) log(level Level, tag, format string, args ...interface{}) {
	if l.level > level {
		return
	}
	msg := fmt.Sprintf(tag+" "+format, args...)
	_ = l.logger.Output(3, msg)
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	defaultLogger.log(DebugLevel, "[DEBUG]", format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	defaultLogger.log(InfoLevel, "[INFO]", format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	defaultLogger.log(WarnLevel, "[WARN]", format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	defaultLogger.log(ErrorLevel, "[ERROR]", format, args...)
}

// Fatal logs a message at ErrorLevel and exits
func Fatal(format string, args ...interface{}) {
	defaultLogger.log(ErrorLevel, "[FATAL]", format, args...)
	os.Exit(1)
}
