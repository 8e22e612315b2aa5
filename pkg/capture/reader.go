package capture

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// Filter specifies criteria for filtering captured records.
// Empty/nil fields match all records for that criterion.
type Filter struct {
	// SessionID filters by exact session ID match.
	SessionID string

	// Level filters by exact severity match.
	Level *level.Level

	// MaxLevel keeps records at or below this level value. Lower
	// values are more severe, so MaxLevel of Warn keeps Fatal,
	// Error, and Warn records.
	MaxLevel *level.Level

	// TimeStart filters records at or after this time.
	TimeStart *time.Time

	// TimeEnd filters records before this time.
	TimeEnd *time.Time

	// Contains filters records whose message contains this substring.
	Contains string
}

// Matches returns true if the record matches all filter criteria.
func (f *Filter) Matches(rec Record) bool {
	if f.SessionID != "" && rec.SessionID != f.SessionID {
		return false
	}
	if f.Level != nil && rec.Level != *f.Level {
		return false
	}
	if f.MaxLevel != nil && rec.Level > *f.MaxLevel {
		return false
	}
	if f.TimeStart != nil && rec.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !rec.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	if f.Contains != "" && !strings.Contains(rec.Message, f.Contains) {
		return false
	}
	return true
}

// Reader reads captured records from a CBOR-encoded file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all records from the specified file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads records matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// Next returns the next record that matches the filter.
// Returns io.EOF when no more records are available.
func (r *Reader) Next() (Record, error) {
	for {
		var rec Record
		if err := r.decoder.Decode(&rec); err != nil {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			return Record{}, err
		}

		if r.filter.Matches(rec) {
			return rec, nil
		}
		// Record doesn't match filter, continue to next
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
