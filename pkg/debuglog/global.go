package debuglog

import (
	"sync/atomic"

	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// defaultLogger backs the package-level log functions. Interrupt
// handlers and package init code have no way to carry a Logger
// reference, so one process-wide instance is provided.
var defaultLogger atomic.Pointer[Logger]

// Install makes l the logger used by the package-level functions.
// Passing nil uninstalls it, returning them to no-ops.
func Install(l *Logger) {
	defaultLogger.Store(l)
}

// Default returns the installed logger, or nil when none is installed.
func Default() *Logger {
	return defaultLogger.Load()
}

// Log transmits message through the installed logger.
func Log(lv level.Level, message string) {
	if l := defaultLogger.Load(); l != nil {
		l.Log(lv, message)
	}
}

// Logf formats and transmits a record through the installed logger.
func Logf(lv level.Level, format string, args ...any) {
	if l := defaultLogger.Load(); l != nil {
		l.Logf(lv, format, args...)
	}
}

// Debugf transmits a formatted record at Debug through the installed
// logger.
func Debugf(format string, args ...any) {
	Logf(level.Debug, format, args...)
}

// Infof transmits a formatted record at Info through the installed
// logger.
func Infof(format string, args ...any) {
	Logf(level.Info, format, args...)
}

// Warnf transmits a formatted record at Warn through the installed
// logger.
func Warnf(format string, args ...any) {
	Logf(level.Warn, format, args...)
}

// Errorf transmits a formatted record at Error through the installed
// logger.
func Errorf(format string, args ...any) {
	Logf(level.Error, format, args...)
}

// Fatalf transmits a formatted record at Fatal through the installed
// logger and requests host fatal handling.
func Fatalf(format string, args ...any) {
	Logf(level.Fatal, format, args...)
}
