package commands

import (
	"fmt"
	"io"

	"github.com/gbadbg/gbadbg-go/pkg/capture"
)

// RunFilter filters the log file and writes matching records to a new
// file in the same format.
func RunFilter(path string, filter capture.Filter, output string) error {
	reader, err := capture.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	sink, err := capture.NewFileSink(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer sink.Close()

	count := 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		sink.Capture(rec)
		count++
	}

	fmt.Printf("Filtered %d records to %s\n", count, output)
	return nil
}
