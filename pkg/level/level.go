// Package level defines the severity scale shared by the guest logger,
// the emulated host device, and the capture tooling.
//
// Levels are ordered by severity: lower values are more severe. The
// numeric values are the level codes carried in the send register's low
// bits, so they are part of the wire protocol and must not change.
package level

import (
	"fmt"
	"strings"
)

// Level identifies the severity of a log record.
type Level uint8

const (
	// Fatal indicates an unrecoverable condition. After a fatal record
	// the guest requests host fatal handling.
	Fatal Level = 0
	// Error indicates a recoverable error.
	Error Level = 1
	// Warn indicates a condition worth attention.
	Warn Level = 2
	// Info indicates normal operational output.
	Info Level = 3
	// Debug indicates verbose diagnostic output.
	Debug Level = 4
)

// Count is the number of defined levels. Level codes are valid in the
// half-open range [0, Count).
const Count = 5

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Fatal:
		return "FATAL"
	case Error:
		return "ERROR"
	case Warn:
		return "WARN"
	case Info:
		return "INFO"
	case Debug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l < Count
}

// Parse converts a level name to a Level (case-insensitive).
// "warning" is accepted as an alias for "warn".
func Parse(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "fatal":
		return Fatal, nil
	case "error":
		return Error, nil
	case "warn", "warning":
		return Warn, nil
	case "info":
		return Info, nil
	case "debug":
		return Debug, nil
	default:
		return 0, fmt.Errorf("invalid level: %s (must be fatal, error, warn, info, or debug)", s)
	}
}

// All returns the defined levels ordered from most to least severe.
func All() []Level {
	return []Level{Fatal, Error, Warn, Info, Debug}
}
