// Package commands implements the gbadbg-log CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// ANSI escape sequences for colored level names.
const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

// levelColor returns the ANSI color for a severity, or "" for plain
// output.
func levelColor(lv level.Level) string {
	switch lv {
	case level.Fatal, level.Error:
		return ansiRed
	case level.Warn:
		return ansiYellow
	case level.Debug:
		return ansiCyan
	default:
		return ""
	}
}

// formatRecord writes a human-readable representation of the record to w.
func formatRecord(w io.Writer, rec capture.Record, color bool) {
	ts := rec.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(rec.SessionID)

	// Pad before coloring so escape bytes don't break the column.
	lvName := fmt.Sprintf("%-5s", rec.Level.String())
	if color {
		if c := levelColor(rec.Level); c != "" {
			lvName = c + lvName + ansiReset
		}
	}

	fmt.Fprintf(w, "%s [%s] %s #%d %s\n", ts, session, lvName, rec.Seq, rec.Message)
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// RunView executes the view command.
func RunView(path string, filter capture.Filter, output io.Writer, color bool) error {
	reader, err := capture.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		formatRecord(output, rec, color)
	}

	return nil
}
