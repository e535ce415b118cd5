// Package logger provides the leveled console logger used for operational
// messages. Statement outcomes are not logged; they go through the reporter.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Log levels, lowest first.
const (
	levelDebug int = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes "[HH:MM:SS] [LEVEL] message" lines. It is safe for
// concurrent use.
type ConsoleLogger struct {
	writer      io.Writer
	level       int
	mutex       sync.Mutex
	colorOutput bool
	now         func() time.Time
}

// NewConsoleLogger creates a ConsoleLogger writing to w. A nil writer discards
// everything. An empty or unknown level means info.
func NewConsoleLogger(w io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      w,
		level:       parseLevel(logLevel),
		colorOutput: isTerminal(w),
		now:         time.Now,
	}
}

// Discard returns a logger that writes nothing.
func Discard() *ConsoleLogger {
	return NewConsoleLogger(nil, "")
}

func isTerminal(w io.Writer) bool {
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn", "warning":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Debugf logs at debug level.
func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	l.log(levelDebug, "DEBUG", format, args...)
}

// Infof logs at info level.
func (l *ConsoleLogger) Infof(format string, args ...interface{}) {
	l.log(levelInfo, "INFO", format, args...)
}

// Warnf logs at warn level.
func (l *ConsoleLogger) Warnf(format string, args ...interface{}) {
	l.log(levelWarn, "WARN", format, args...)
}

// Errorf logs at error level.
func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	l.log(levelError, "ERROR", format, args...)
}

func (l *ConsoleLogger) log(level int, label, format string, args ...interface{}) {
	if l == nil || l.writer == nil || level < l.level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	ts := l.now().Format("15:04:05")
	if l.colorOutput {
		label = colorLabel(label)
	}
	fmt.Fprintf(l.writer, "[%s] [%s] %s\n", ts, label, fmt.Sprintf(format, args...))
}

func colorLabel(label string) string {
	switch label {
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(label)
	case "INFO":
		return color.New(color.FgBlue).Sprint(label)
	case "WARN":
		return color.New(color.FgYellow).Sprint(label)
	case "ERROR":
		return color.New(color.FgRed).Sprint(label)
	default:
		return label
	}
}
