package capture

import (
	"time"

	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// Record is one captured guest message. The host device produces a
// Record each time the guest triggers a send; a guest message split
// into chunks therefore produces one Record per chunk.
// CBOR encoding uses integer keys for compactness.
type Record struct {
	// Timestamp when the host consumed the buffer (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the emulation session (UUID).
	// Resetting the device starts a new session.
	SessionID string `cbor:"2,keyasint"`

	// Seq is the position of this record within its session,
	// starting at 0.
	Seq uint64 `cbor:"3,keyasint"`

	// Level is the severity the guest wrote to the send register.
	Level level.Level `cbor:"4,keyasint"`

	// Message is the buffer contents up to the terminator.
	Message string `cbor:"5,keyasint"`
}
