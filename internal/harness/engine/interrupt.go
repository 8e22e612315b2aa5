package engine

import (
	"sync"

	"github.com/gbadbg/gbadbg-go/pkg/level"
	"github.com/gbadbg/gbadbg-go/pkg/mmio"
)

// InterruptPoint names a port operation an interrupt hook can fire at.
type InterruptPoint string

const (
	// PointWrite fires at the start of a buffer write.
	PointWrite InterruptPoint = "write"

	// PointTrigger fires just before the send register write.
	PointTrigger InterruptPoint = "trigger"

	// PointHalt fires just before the halt request.
	PointHalt InterruptPoint = "halt"
)

// ValidPoint reports whether p names a known interrupt point.
func ValidPoint(p InterruptPoint) bool {
	switch p {
	case PointWrite, PointTrigger, PointHalt:
		return true
	}
	return false
}

// InterruptingPort wraps an mmio.Port and fires an armed hook exactly
// once at a configured point inside a transmission, simulating an
// interrupt handler preempting the guest mid-send. It also counts port
// operations for the port_writes checker.
type InterruptingPort struct {
	inner mmio.Port

	mu       sync.Mutex
	hook     func()
	point    InterruptPoint
	armed    bool
	writes   int
	triggers int
	halts    int
	probes   int
}

// WrapPort wraps inner in an InterruptingPort with no hook armed.
func WrapPort(inner mmio.Port) *InterruptingPort {
	return &InterruptingPort{inner: inner}
}

// Arm schedules hook to fire once at the next occurrence of point.
func (p *InterruptingPort) Arm(point InterruptPoint, hook func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.point = point
	p.hook = hook
	p.armed = true
}

// Armed reports whether a hook is waiting to fire.
func (p *InterruptingPort) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.armed
}

// fire runs the hook when armed for at. The hook is disarmed before it
// runs, so a hook that writes through this port cannot re-trigger
// itself.
func (p *InterruptingPort) fire(at InterruptPoint) {
	p.mu.Lock()
	if !p.armed || p.point != at {
		p.mu.Unlock()
		return
	}
	hook := p.hook
	p.armed = false
	p.hook = nil
	p.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (p *InterruptingPort) count(n *int) {
	p.mu.Lock()
	*n++
	p.mu.Unlock()
}

// Capacity returns the wrapped port's capacity.
func (p *InterruptingPort) Capacity() int {
	return p.inner.Capacity()
}

// WriteBuffer fires a write-point hook, then forwards to the wrapped port.
func (p *InterruptingPort) WriteBuffer(off int, b []byte) {
	p.count(&p.writes)
	p.fire(PointWrite)
	p.inner.WriteBuffer(off, b)
}

// Trigger fires a trigger-point hook, then forwards to the wrapped port.
func (p *InterruptingPort) Trigger(lv level.Level) {
	p.count(&p.triggers)
	p.fire(PointTrigger)
	p.inner.Trigger(lv)
}

// Halt fires a halt-point hook, then forwards to the wrapped port.
func (p *InterruptingPort) Halt() {
	p.count(&p.halts)
	p.fire(PointHalt)
	p.inner.Halt()
}

// Probe forwards to the wrapped port.
func (p *InterruptingPort) Probe() bool {
	p.count(&p.probes)
	return p.inner.Probe()
}

// WriteCount returns the number of buffer writes seen.
func (p *InterruptingPort) WriteCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// TriggerCount returns the number of send triggers seen.
func (p *InterruptingPort) TriggerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.triggers
}

// HaltCount returns the number of halt requests seen.
func (p *InterruptingPort) HaltCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.halts
}

// ProbeCount returns the number of probes seen.
func (p *InterruptingPort) ProbeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probes
}

// Compile-time interface satisfaction check.
var _ mmio.Port = (*InterruptingPort)(nil)
