package mmio

import "github.com/gbadbg/gbadbg-go/pkg/level"

// Port is the guest's capability to the debug register block. The
// production implementation is HardwarePort; tests and host tooling use
// the emulated device in pkg/host.
//
// Implementations are not required to serialize callers; the guest
// logger enforces at most one in-flight transmission through its own
// guard before touching the port.
type Port interface {
	// Capacity returns the transmission buffer size in bytes.
	Capacity() int

	// WriteBuffer stages b into the transmission buffer at off.
	// The caller guarantees off+len(b) <= Capacity().
	WriteBuffer(off int, b []byte)

	// Trigger consumes the staged chunk as one record at lv.
	Trigger(lv level.Level)

	// Halt requests host fatal handling. It writes only the send
	// register, never the buffer.
	Halt()

	// Probe performs the enable handshake and reports whether a host
	// acknowledged it.
	Probe() bool
}
