package capture

import "sync"

// Buffer collects records in memory. It backs test harness assertions,
// where the full record list must stay inspectable after capture.
// It is safe for concurrent use from multiple goroutines.
type Buffer struct {
	mu      sync.Mutex
	records []Record
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Capture appends the record.
func (b *Buffer) Capture(rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, rec)
}

// Records returns a copy of all captured records in capture order.
func (b *Buffer) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// Len returns the number of captured records.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Clear discards all captured records.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
}

// Compile-time interface satisfaction check.
var _ Sink = (*Buffer)(nil)
