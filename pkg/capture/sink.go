package capture

// Sink is the interface applications implement to receive captured records.
// Pass nil or NoopSink to discard guest output.
type Sink interface {
	// Capture records one guest message. Implementations must be
	// thread-safe. The record should be processed quickly or queued;
	// blocking stalls the emulated bus write that produced it.
	Capture(rec Record)
}

// NoopSink discards all records. Use when capture is disabled.
// NoopSink is safe for concurrent use and usable as a zero value.
type NoopSink struct{}

// Capture discards the record.
func (NoopSink) Capture(Record) {}

// Compile-time interface satisfaction check.
var _ Sink = NoopSink{}
