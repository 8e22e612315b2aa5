// Package capture provides structured record capture for the host side
// of the debug log protocol.
//
// This package defines the Sink interface and the Record type that the
// emulated host device produces for every message a guest transmits.
// It is separate from operational logging (slog) - capture preserves a
// complete machine-readable trace of guest output for later analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Sink implementation:
//
//	// For development: print records to console via slog
//	cfg.Sink = capture.NewSlogSink(slog.Default())
//
//	// For archiving: write to binary file
//	cfg.Sink, _ = capture.NewFileSink("session.dlog")
//
//	// Both: use MultiSink
//	cfg.Sink = capture.NewMultiSink(
//	    capture.NewSlogSink(slog.Default()),
//	    fileSink,
//	)
//
// # File Format
//
// Capture files use CBOR encoding with .dlog extension. The gbadbg-log
// CLI tool provides viewing, filtering, and export capabilities.
package capture
