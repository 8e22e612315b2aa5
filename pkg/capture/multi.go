package capture

// MultiSink sends records to multiple sinks.
// Useful when you want both console output (via SlogSink)
// and file output (via FileSink) simultaneously.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a MultiSink that sends records to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Capture sends the record to all configured sinks.
func (m *MultiSink) Capture(rec Record) {
	for _, s := range m.sinks {
		s.Capture(rec)
	}
}

// Compile-time interface satisfaction check.
var _ Sink = (*MultiSink)(nil)
