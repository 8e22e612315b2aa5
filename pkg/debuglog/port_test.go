package debuglog

import (
	"bytes"

	"github.com/gbadbg/gbadbg-go/pkg/level"
	"github.com/gbadbg/gbadbg-go/pkg/mmio"
)

// fakePort is an in-memory transmission port that records every raw
// operation and decodes consumed chunks the way a host would.
type fakePort struct {
	capacity int
	probeOK  bool

	buf     []byte
	ops     []string
	writes  [][]byte
	records []fakeRecord
	halts   int
	probes  int

	// onWrite, when set, runs before each WriteBuffer. Tests use it to
	// interrupt a transmission at its most vulnerable point.
	onWrite func()
}

type fakeRecord struct {
	lv  level.Level
	msg string
}

func newFakePort(capacity int) *fakePort {
	return &fakePort{
		capacity: capacity,
		probeOK:  true,
		buf:      make([]byte, capacity),
	}
}

func (p *fakePort) Capacity() int {
	return p.capacity
}

func (p *fakePort) WriteBuffer(off int, b []byte) {
	if p.onWrite != nil {
		p.onWrite()
	}
	p.ops = append(p.ops, "write")
	p.writes = append(p.writes, append([]byte(nil), b...))
	copy(p.buf[off:], b)
}

func (p *fakePort) Trigger(lv level.Level) {
	p.ops = append(p.ops, "trigger")
	n := bytes.IndexByte(p.buf, mmio.Terminator)
	if n < 0 {
		n = len(p.buf)
	}
	p.records = append(p.records, fakeRecord{lv: lv, msg: string(p.buf[:n])})
}

func (p *fakePort) Halt() {
	p.ops = append(p.ops, "halt")
	p.halts++
}

func (p *fakePort) Probe() bool {
	p.ops = append(p.ops, "probe")
	p.probes++
	return p.probeOK
}

// messages returns the consumed record texts in order.
func (p *fakePort) messages() []string {
	out := make([]string, len(p.records))
	for i, r := range p.records {
		out[i] = r.msg
	}
	return out
}

// Compile-time interface satisfaction check.
var _ mmio.Port = (*fakePort)(nil)
