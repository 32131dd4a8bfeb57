package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Logger is a thin wrapper around the standard logger that provides leveled logging
type Logger struct {
	*log.Logger
	mu sync.Mutex
}

// Global logger instance
var std = &Logger{Logger: log.New(os.Stdout, "", log.LstdFlags)}

// LogLevel represents the logging level
type LogLevel int

const (
	// DebugLevel logs are typically verbose
	DebugLevel LogLevel = iota
	// InfoLevel is the default logging priority
	InfoLevel
	// WarnLevel logs are warnings
	WarnLevel
	// ErrorLevel logs are high-priority
	ErrorLevel
)

var levelNames = map[LogLevel]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

var currentLevel = InfoLevel

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" (any case) to a LogLevel.
// The empty string means info.
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, true
	case "info", "":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	}
	return InfoLevel, false
}

// Initialize sets up the global logger level based on input string (e.g., "debug", "info", "warn", "error").
// Unknown levels fall back to info.
func Initialize(level string) {
	lvl, _ := ParseLevel(level)
	std.mu.Lock()
	defer std.mu.Unlock()
	currentLevel = lvl
	if lvl == DebugLevel {
		std.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	} else {
		std.SetFlags(log.Ldate | log.Ltime)
	}
}

// SetOutput redirects log output, mostly useful in tests.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.Logger.SetOutput(w)
}

func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < currentLevel {
		return
	}
	l.SetPrefix(fmt.Sprintf("[%s] ", levelNames[level]))
	_ = l.Output(3, fmt.Sprintf(format, v...))
}

// Package-level helpers
func Debug(format string, v ...interface{}) { std.log(DebugLevel, format, v...) }
func Info(format string, v ...interface{})  { std.log(InfoLevel, format, v...) }
func Warn(format string, v ...interface{})  { std.log(WarnLevel, format, v...) }
func Error(format string, v ...interface{}) { std.log(ErrorLevel, format, v...) }
