// Package status implements the run-state byte used by host automation
// to detect guest completion.
//
// The byte lives at a fixed working-RAM address, far from the debug
// register block. It has exactly one writer (the guest main loop) and
// one reader (the host poller), and shares no state with the debug
// logger, so signaling completion can never contend with an in-flight
// transmission.
package status

import "sync/atomic"

// Values of the run-state byte.
const (
	// Running is the power-on value.
	Running byte = 0

	// Done signals that the guest finished its work.
	Done byte = 3
)

// Cell is a single byte of shared run state.
type Cell interface {
	// Store sets the cell value.
	Store(v byte)

	// Load returns the current cell value.
	Load() byte
}

// MemCell is an in-memory Cell, safe for a writer and a reader in
// separate goroutines. The zero value holds Running.
type MemCell struct {
	v atomic.Uint32
}

// Store sets the cell value.
func (c *MemCell) Store(v byte) {
	c.v.Store(uint32(v))
}

// Load returns the current cell value.
func (c *MemCell) Load() byte {
	return byte(c.v.Load())
}

// Compile-time interface satisfaction check.
var _ Cell = (*MemCell)(nil)

// Signal reports guest completion through a Cell.
type Signal struct {
	cell Cell
}

// NewSignal creates a Signal writing to cell.
func NewSignal(cell Cell) *Signal {
	return &Signal{cell: cell}
}

// Done marks the guest as finished.
func (s *Signal) Done() {
	s.cell.Store(Done)
}

// Reached reports whether cell holds Done.
func Reached(cell Cell) bool {
	return cell.Load() == Done
}
