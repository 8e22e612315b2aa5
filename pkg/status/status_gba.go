//go:build gba

package status

import (
	"unsafe"

	"github.com/gbadbg/gbadbg-go/pkg/mmio"
)

// HardwareCell is the run-state byte at its fixed working-RAM address.
type HardwareCell struct{}

// Store sets the run-state byte.
func (HardwareCell) Store(v byte) {
	*(*byte)(unsafe.Pointer(uintptr(mmio.StatusAddr))) = v
}

// Load returns the run-state byte.
func (HardwareCell) Load() byte {
	return *(*byte)(unsafe.Pointer(uintptr(mmio.StatusAddr)))
}

// Compile-time interface satisfaction check.
var _ Cell = HardwareCell{}
