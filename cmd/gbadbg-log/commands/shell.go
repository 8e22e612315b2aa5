package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// shellSession holds the state of an interactive browsing session.
type shellSession struct {
	records []capture.Record // every record in the file, load order
	view    []capture.Record // records passing the current filter
	filter  capture.Filter
	cursor  int
	out     io.Writer
	color   bool
}

// RunShell loads the log file and starts the interactive browser.
func RunShell(path string) error {
	records, err := loadRecords(path)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gbadbg-log> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s := &shellSession{
		records: records,
		view:    records,
		out:     rl.Stdout(),
		color:   term.IsTerminal(int(os.Stdout.Fd())),
	}

	fmt.Fprintf(s.out, "Loaded %d records from %s\n", len(records), path)
	s.printHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "next", "n":
			s.cmdNext(args)

		case "rewind":
			s.cmdRewind()

		case "filter", "f":
			s.cmdFilter(args)

		case "stats":
			s.cmdStats()

		case "exit", "quit", "q":
			return nil

		default:
			fmt.Fprintf(s.out, "Unknown command: %s (try help)\n", cmd)
		}
	}
}

// loadRecords reads every record from the file into memory so the
// browser can rewind and refilter without reopening it.
func loadRecords(path string) ([]capture.Record, error) {
	reader, err := capture.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var records []capture.Record
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *shellSession) printHelp() {
	fmt.Fprint(s.out, `Commands:
  next [n], n [n]   Show the next record (or the next n records)
  rewind            Go back to the first record
  filter key=value  Restrict the view (level=, max-level=, session=, contains=)
  filter off        Show all records again
  stats             Summarize the current view
  help, ?           Show this help
  exit, quit, q     Leave the shell
`)
}

func (s *shellSession) cmdNext(args []string) {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintf(s.out, "Invalid count: %s\n", args[0])
			return
		}
		count = n
	}

	if s.cursor >= len(s.view) {
		fmt.Fprintln(s.out, "(end of log)")
		return
	}

	for i := 0; i < count && s.cursor < len(s.view); i++ {
		formatRecord(s.out, s.view[s.cursor], s.color)
		s.cursor++
	}
	if s.cursor >= len(s.view) {
		fmt.Fprintln(s.out, "(end of log)")
	}
}

func (s *shellSession) cmdRewind() {
	s.cursor = 0
	fmt.Fprintln(s.out, "Rewound to start.")
}

func (s *shellSession) cmdFilter(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(s.out, "%d of %d records in view\n", len(s.view), len(s.records))
		return
	}

	if len(args) == 1 && strings.ToLower(args[0]) == "off" {
		s.filter = capture.Filter{}
		s.view = s.records
		s.cursor = 0
		fmt.Fprintf(s.out, "Filter cleared, %d records in view\n", len(s.view))
		return
	}

	filter := s.filter
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			fmt.Fprintf(s.out, "Invalid filter term: %s (want key=value)\n", arg)
			return
		}
		switch strings.ToLower(key) {
		case "level":
			lv, err := level.Parse(value)
			if err != nil {
				fmt.Fprintf(s.out, "%v\n", err)
				return
			}
			filter.Level = &lv
		case "max-level":
			lv, err := level.Parse(value)
			if err != nil {
				fmt.Fprintf(s.out, "%v\n", err)
				return
			}
			filter.MaxLevel = &lv
		case "session":
			filter.SessionID = value
		case "contains":
			filter.Contains = value
		default:
			fmt.Fprintf(s.out, "Unknown filter key: %s (want level, max-level, session, or contains)\n", key)
			return
		}
	}

	s.filter = filter
	s.view = nil
	for _, rec := range s.records {
		if s.filter.Matches(rec) {
			s.view = append(s.view, rec)
		}
	}
	s.cursor = 0
	fmt.Fprintf(s.out, "%d of %d records match\n", len(s.view), len(s.records))
}

func (s *shellSession) cmdStats() {
	byLevel := make(map[level.Level]int)
	sessions := make(map[string]struct{})
	for _, rec := range s.view {
		byLevel[rec.Level]++
		sessions[rec.SessionID] = struct{}{}
	}

	fmt.Fprintf(s.out, "Records: %d  Sessions: %d\n", len(s.view), len(sessions))
	for _, lv := range level.All() {
		if count := byLevel[lv]; count > 0 {
			fmt.Fprintf(s.out, "  %-7s %d\n", lv.String()+":", count)
		}
	}
}
