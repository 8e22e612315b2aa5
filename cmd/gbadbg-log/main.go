// Command gbadbg-log is a tool for viewing and analyzing captured
// debug log files.
//
// Log files are created by the host capture layer when running the
// emulated device with a file sink, or gbadbg-test with the -capture
// flag.
//
// Usage:
//
//	gbadbg-log <command> [flags] <file.dlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//	shell    Browse the log file interactively
//
// Examples:
//
//	# View all records
//	gbadbg-log view run.dlog
//
//	# View only warnings and worse
//	gbadbg-log view -max-level warn run.dlog
//
//	# Export to JSONL
//	gbadbg-log export -format jsonl run.dlog
//
//	# Keep one session's records in a new file
//	gbadbg-log filter -session abc12345-0000 -o session.dlog run.dlog
//
//	# Show statistics
//	gbadbg-log stats run.dlog
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/gbadbg/gbadbg-go/cmd/gbadbg-log/commands"
	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/level"
)

const usage = `gbadbg-log - Debug Log Analyzer

Usage:
  gbadbg-log <command> [flags] <file.dlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file
  shell    Browse the log file interactively

Use "gbadbg-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "shell":
		runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `gbadbg-log view - View log file in human-readable format

Usage:
  gbadbg-log view [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	lv := fs.String("level", "", "Filter by exact severity (fatal, error, warn, info, debug)")
	maxLevel := fs.String("max-level", "", "Keep records at or above this severity")
	session := fs.String("session", "", "Filter by session ID")
	contains := fs.String("contains", "", "Filter by message substring")
	noColor := fs.Bool("no-color", false, "Disable colored output")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	filter, err := buildFilter(*session, *lv, *maxLevel, "", "", *contains)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	color := !*noColor && term.IsTerminal(int(os.Stdout.Fd()))

	if err := commands.RunView(path, filter, os.Stdout, color); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `gbadbg-log export - Export log file to JSON or CSV format

Usage:
  gbadbg-log export [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `gbadbg-log filter - Filter log file and write to new file

Usage:
  gbadbg-log filter [flags] <file.dlog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	session := fs.String("session", "", "Filter by session ID")
	lv := fs.String("level", "", "Filter by exact severity")
	maxLevel := fs.String("max-level", "", "Keep records at or above this severity")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	contains := fs.String("contains", "", "Filter by message substring")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	filter, err := buildFilter(*session, *lv, *maxLevel, *timeStart, *timeEnd, *contains)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := commands.RunFilter(path, filter, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `gbadbg-log stats - Show statistics about the log file

Usage:
  gbadbg-log stats <file.dlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `gbadbg-log shell - Browse the log file interactively

Usage:
  gbadbg-log shell <file.dlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunShell(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildFilter assembles a capture.Filter from flag values.
func buildFilter(session, lv, maxLevel, timeStart, timeEnd, contains string) (capture.Filter, error) {
	filter := capture.Filter{
		SessionID: session,
		Contains:  contains,
	}

	if lv != "" {
		l, err := level.Parse(lv)
		if err != nil {
			return filter, err
		}
		filter.Level = &l
	}

	if maxLevel != "" {
		l, err := level.Parse(maxLevel)
		if err != nil {
			return filter, err
		}
		filter.MaxLevel = &l
	}

	if timeStart != "" {
		t, err := time.Parse(time.RFC3339, timeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if timeEnd != "" {
		t, err := time.Parse(time.RFC3339, timeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}
