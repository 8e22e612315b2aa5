package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gbadbg/gbadbg-go/pkg/capture"
)

// jsonRecord is the JSON export shape of a captured record. The CBOR
// integer keys are replaced with readable names.
type jsonRecord struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Seq       uint64    `json:"seq"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := capture.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *capture.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		jr := jsonRecord{
			Timestamp: rec.Timestamp,
			SessionID: rec.SessionID,
			Seq:       rec.Seq,
			Level:     rec.Level.String(),
			Message:   rec.Message,
		}
		if err := encoder.Encode(jr); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *capture.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	// Write header
	header := []string{"timestamp", "session_id", "seq", "level", "message"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		row := []string{
			rec.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			rec.SessionID,
			fmt.Sprintf("%d", rec.Seq),
			rec.Level.String(),
			rec.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
