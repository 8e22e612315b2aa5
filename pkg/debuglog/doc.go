// Package debuglog implements the guest side of the memory-mapped
// debug log protocol: structured log records delivered to an attached
// host through the transmission buffer.
//
// The package is built to be callable from anywhere in the guest,
// including interrupt handlers. Transmission is protected by an atomic
// test-and-set guard; a call that finds a transmission already in
// flight drops its record instead of blocking, so logging can never
// deadlock the code it observes.
//
// # Basic Usage
//
// Create a Logger over a transmission port and probe for the host once
// at startup:
//
//	logger := debuglog.New(port)
//	if err := logger.Init(); err != nil {
//		// No host attached. The logger stays inert and every log
//		// call is a cheap no-op.
//	}
//	logger.Infof("boot complete, %d bytes free", free)
//
// For code that cannot carry a logger reference (interrupt handlers,
// package init), install a process-wide default:
//
//	debuglog.Install(logger)
//	debuglog.Warnf("vblank overrun")
//
// # Record Semantics
//
// Each line of a message is transmitted as its own record. Lines longer
// than the transmission buffer allows are split into multiple records
// at UTF-8 boundaries. A Fatal record additionally requests host fatal
// handling after its last chunk.
//
// # slog Integration
//
// SlogHandler adapts a Logger to the standard library's structured
// logger, so dependencies written against log/slog reach the host
// console:
//
//	slog.SetDefault(slog.New(debuglog.NewSlogHandler(logger, nil)))
package debuglog
