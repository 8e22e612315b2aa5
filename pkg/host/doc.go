// Package host emulates the debugger side of the debug log protocol.
//
// Device models the memory-mapped debug interface the way an emulator
// exposes it: a message buffer, a send register, and an enable register,
// plus the completion status cell in work RAM. The guest half
// (pkg/debuglog) talks to a Device through the mmio.Port interface; an
// emulator memory bus embeds the same Device through the Read8/Write8/
// Read16/Write16 accessors at the documented addresses.
//
// # Basic Usage
//
//	dev := host.New(host.Config{Sink: sink})
//	logger := debuglog.New(dev)
//	if err := logger.Init(); err != nil { ... }
//	logger.Infof("hello")         // sink receives one Record
//
// Every consumed buffer becomes a capture.Record carrying the session
// ID, a monotonic sequence number, and the decoded severity. Resetting
// the device starts a fresh session.
package host
