//go:build gba

package mmio

import (
	"unsafe"

	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// HardwarePort drives the debug register block directly: byte stores
// into the transmission buffer and 16-bit stores to the send and enable
// registers.
type HardwarePort struct{}

// NewHardwarePort returns the port for the memory-mapped register
// block.
func NewHardwarePort() *HardwarePort {
	return &HardwarePort{}
}

// Capacity returns BufferSize.
func (*HardwarePort) Capacity() int {
	return BufferSize
}

// WriteBuffer stores b into the transmission buffer one byte at a time.
// The buffer only supports byte access from the CPU side.
func (*HardwarePort) WriteBuffer(off int, b []byte) {
	for i := 0; i < len(b); i++ {
		store8(BufferAddr+uintptr(off)+uintptr(i), b[i])
	}
}

// Trigger writes FlagSend with the level code to the send register.
func (*HardwarePort) Trigger(lv level.Level) {
	store16(SendAddr, FlagSend|uint16(lv))
}

// Halt writes FlagHalt to the send register.
func (*HardwarePort) Halt() {
	store16(SendAddr, FlagHalt)
}

// Probe writes EnableMagic to the enable register and reports whether
// it reads back EnableAck. Without an attached host the address is open
// bus and the readback fails.
func (*HardwarePort) Probe() bool {
	store16(EnableAddr, EnableMagic)
	return load16(EnableAddr) == EnableAck
}

func store8(addr uintptr, v byte) {
	*(*byte)(unsafe.Pointer(addr)) = v
}

func store16(addr uintptr, v uint16) {
	*(*uint16)(unsafe.Pointer(addr)) = v
}

func load16(addr uintptr) uint16 {
	return *(*uint16)(unsafe.Pointer(addr))
}

// Compile-time interface satisfaction check.
var _ Port = (*HardwarePort)(nil)
