// Package mmio defines the memory-mapped debug interface: the register
// layout shared with the host and the Port capability the guest logger
// uses to reach it.
//
// The register block follows the mGBA debug protocol. A transmission
// buffer holds one chunk of record text; a 16-bit send register
// consumes the buffer or requests fatal handling; a 16-bit enable
// register carries the presence handshake. On hardware without an
// attached host the enable address reads back open bus, so the probe
// fails cleanly and logging stays inert.
//
// The production Port implementation (HardwarePort) is compiled only
// for the gba build target. Everything else in the repository talks to
// the same registers through the emulated device in pkg/host.
package mmio
