package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalRecords   int
	RecordsByLevel map[level.Level]int
	Sessions       map[string]*SessionStats
	Errors         int
	TimeRange      struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single capture session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Records   int
	Fatals    int
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := capture.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		RecordsByLevel: make(map[level.Level]int),
		Sessions:       make(map[string]*SessionStats),
	}

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		stats.TotalRecords++
		stats.RecordsByLevel[rec.Level]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || rec.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = rec.Timestamp
		}
		if rec.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = rec.Timestamp
		}

		// Track session stats
		sess, ok := stats.Sessions[rec.SessionID]
		if !ok {
			sess = &SessionStats{
				FirstSeen: rec.Timestamp,
				LastSeen:  rec.Timestamp,
			}
			stats.Sessions[rec.SessionID] = sess
		}
		sess.Records++
		if rec.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = rec.Timestamp
		}
		if rec.Level == level.Fatal {
			sess.Fatals++
		}

		// Count errors
		if rec.Level <= level.Error {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Debug Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalRecords > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total records
	fmt.Fprintf(w, "Total Records: %d\n", stats.TotalRecords)
	fmt.Fprintln(w)

	// Records by level
	fmt.Fprintln(w, "Records by Level:")
	for _, lv := range level.All() {
		if count := stats.RecordsByLevel[lv]; count > 0 {
			fmt.Fprintf(w, "  %-7s %d\n", lv.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Sessions
	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		// Sort by first seen time
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			shortID := s.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d records, duration %s\n", shortID, s.stats.Records, duration)
			if s.stats.Fatals > 0 {
				fmt.Fprintf(w, "           Fatals: %d\n", s.stats.Fatals)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
