// Package logger provides leveled, printf-style logging for the process.
//
// Output goes to stderr by default so that the stdio MCP transport, which
// owns stdout, is never corrupted by log lines. Debug messages are only
// emitted when verbose mode is enabled.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	std     = log.New(os.Stderr, "", log.LstdFlags)
)

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether debug output is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects all log output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Debug logs a message when verbose mode is enabled.
func Debug(format string, args ...any) {
	if !IsVerbose() {
		return
	}
	write("DEBUG", format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	write("INFO", format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	write("WARN", format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	write("ERROR", format, args...)
}

func write(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	std.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}
