package debuglog

import (
	"sync/atomic"

	"github.com/gbadbg/gbadbg-go/pkg/level"
	"github.com/gbadbg/gbadbg-go/pkg/mmio"
)

// Sender owns the transmission buffer and enforces at most one
// in-flight transmission. It is the only component that stages bytes
// into the port.
//
// The guard is an atomic test-and-set rather than a mutex: the logger
// must be callable from interrupt handlers, and an interrupt that
// preempted a transmission on the same CPU would wait forever on a lock
// the preempted code cannot release. A failed test-and-set drops the
// chunk instead.
type Sender struct {
	port mmio.Port
	busy atomic.Bool

	// frame is the staging area for one chunk plus terminator. It is
	// written only while busy is held, so a dropped reentrant call can
	// never corrupt the chunk it interrupted.
	frame []byte
}

// NewSender creates a Sender for port.
func NewSender(port mmio.Port) *Sender {
	return &Sender{
		port:  port,
		frame: make([]byte, port.Capacity()),
	}
}

// Capacity returns the port's transmission buffer size in bytes.
func (s *Sender) Capacity() int {
	return len(s.frame)
}

// Send transmits payload as one record at lv. The payload must be at
// most Capacity()-1 bytes; Send appends the terminator. Terminator
// bytes inside the payload are replaced with the substitute character
// so the host cannot cut the record short.
//
// Send reports false when another transmission is in flight, in which
// case nothing is written to the port.
func (s *Sender) Send(lv level.Level, payload string) bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	defer s.busy.Store(false)

	n := 0
	for ; n < len(payload) && n < len(s.frame)-1; n++ {
		c := payload[n]
		if c == mmio.Terminator {
			c = mmio.Substitute
		}
		s.frame[n] = c
	}
	s.frame[n] = mmio.Terminator

	s.port.WriteBuffer(0, s.frame[:n+1])
	s.port.Trigger(lv)
	return true
}

// Halt requests host fatal handling. It writes only the send register,
// never the buffer, so it needs no guard.
func (s *Sender) Halt() {
	s.port.Halt()
}
