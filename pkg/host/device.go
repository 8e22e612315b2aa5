package host

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gbadbg/gbadbg-go/pkg/capture"
	"github.com/gbadbg/gbadbg-go/pkg/level"
	"github.com/gbadbg/gbadbg-go/pkg/mmio"
	"github.com/gbadbg/gbadbg-go/pkg/status"
)

// Config configures a Device.
type Config struct {
	// Capacity is the message buffer size in bytes.
	// Zero means mmio.BufferSize. Tests use small values to force
	// chunking with short messages.
	Capacity int

	// Sink receives one Record per consumed buffer. Nil discards.
	Sink capture.Sink

	// OnHalt is called once when the guest requests a halt.
	// Nil is allowed.
	OnHalt func()

	// DisableProbeAck simulates an emulator without the debug
	// interface: enable writes are accepted but never acknowledged,
	// so guest probes fail.
	DisableProbeAck bool
}

// Device is the emulated debug interface. It implements mmio.Port for
// in-process guests and exposes bus-style accessors for emulator
// integration. All methods are safe for concurrent use.
type Device struct {
	mu             sync.Mutex
	buf            []byte
	enabled        bool
	halted         bool
	enableReadback uint16
	session        string
	seq            uint64

	sink       capture.Sink
	onHalt     func()
	disableAck bool
	statusCell *status.MemCell
}

// New creates a Device in power-on state: disabled, not halted, empty
// buffer, fresh session ID.
func New(cfg Config) *Device {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = mmio.BufferSize
	}
	sink := cfg.Sink
	if sink == nil {
		sink = capture.NoopSink{}
	}
	return &Device{
		buf:        make([]byte, capacity),
		session:    uuid.NewString(),
		sink:       sink,
		onHalt:     cfg.OnHalt,
		disableAck: cfg.DisableProbeAck,
		statusCell: &status.MemCell{},
	}
}

// Capacity returns the message buffer size in bytes.
func (d *Device) Capacity() int {
	return len(d.buf)
}

// WriteBuffer copies b into the message buffer starting at off.
// Bytes falling outside the buffer window are discarded, matching
// open-bus behavior.
func (d *Device) WriteBuffer(off int, b []byte) {
	for i, c := range b {
		d.Write8(mmio.BufferAddr+uint32(off+i), c)
	}
}

// Trigger consumes the buffer at severity lv.
func (d *Device) Trigger(lv level.Level) {
	d.Write16(mmio.SendAddr, mmio.FlagSend|uint16(lv))
}

// Halt requests an emulator halt.
func (d *Device) Halt() {
	d.Write16(mmio.SendAddr, mmio.FlagHalt)
}

// Probe performs the enable handshake and reports whether the device
// acknowledged.
func (d *Device) Probe() bool {
	d.Write16(mmio.EnableAddr, mmio.EnableMagic)
	return d.Read16(mmio.EnableAddr) == mmio.EnableAck
}

// Write8 performs a byte-wide bus write. Writes to unmapped addresses
// are discarded.
func (d *Device) Write8(addr uint32, v byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i, ok := d.bufIndex(addr); ok {
		d.buf[i] = v
		return
	}
	if addr == mmio.StatusAddr {
		d.statusCell.Store(v)
	}
}

// Read8 performs a byte-wide bus read. Unmapped addresses read zero.
func (d *Device) Read8(addr uint32) byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i, ok := d.bufIndex(addr); ok {
		return d.buf[i]
	}
	if addr == mmio.StatusAddr {
		return d.statusCell.Load()
	}
	return 0
}

// Write16 performs a halfword-wide bus write. The send and enable
// registers are halfword registers; buffer writes are little-endian.
func (d *Device) Write16(addr uint32, v uint16) {
	switch addr {
	case mmio.SendAddr:
		d.writeSend(v)
	case mmio.EnableAddr:
		d.writeEnable(v)
	default:
		d.Write8(addr, byte(v))
		d.Write8(addr+1, byte(v>>8))
	}
}

// Read16 performs a halfword-wide bus read. The send register is
// write-only and reads zero.
func (d *Device) Read16(addr uint32) uint16 {
	switch addr {
	case mmio.SendAddr:
		return 0
	case mmio.EnableAddr:
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.enableReadback
	default:
		return uint16(d.Read8(addr)) | uint16(d.Read8(addr+1))<<8
	}
}

// writeSend handles a send register write. The consumed record and the
// halt callback are delivered after the lock is released, so a sink may
// itself inspect the device without deadlocking.
func (d *Device) writeSend(v uint16) {
	var rec *capture.Record
	var haltFn func()

	d.mu.Lock()
	if d.enabled && !d.halted {
		if v&mmio.FlagSend != 0 {
			if lv := level.Level(v & mmio.LevelMask); lv.Valid() {
				r := capture.Record{
					Timestamp: time.Now(),
					SessionID: d.session,
					Seq:       d.seq,
					Level:     lv,
					Message:   string(d.consumeLocked()),
				}
				d.seq++
				rec = &r
			}
		}
		if v&mmio.FlagHalt != 0 {
			d.halted = true
			haltFn = d.onHalt
		}
	}
	d.mu.Unlock()

	if rec != nil {
		d.sink.Capture(*rec)
	}
	if haltFn != nil {
		haltFn()
	}
}

// consumeLocked returns the buffer contents up to the first terminator,
// or the whole buffer when no terminator is present. Caller holds d.mu.
func (d *Device) consumeLocked() []byte {
	msg := d.buf
	for i, c := range d.buf {
		if c == mmio.Terminator {
			msg = d.buf[:i]
			break
		}
	}
	out := make([]byte, len(msg))
	copy(out, msg)
	return out
}

// writeEnable handles an enable register write. Only the magic value
// enables; anything else disables and clears the readback.
func (d *Device) writeEnable(v uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if v == mmio.EnableMagic && !d.disableAck {
		d.enabled = true
		d.enableReadback = mmio.EnableAck
		return
	}
	d.enabled = false
	d.enableReadback = 0
}

// Reset returns the device to power-on state and starts a new session.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	clear(d.buf)
	d.enabled = false
	d.halted = false
	d.enableReadback = 0
	d.session = uuid.NewString()
	d.seq = 0
	d.statusCell.Store(status.Running)
}

// Enabled reports whether the enable handshake has completed.
func (d *Device) Enabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled
}

// Halted reports whether the guest requested a halt.
func (d *Device) Halted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.halted
}

// SessionID returns the current session identifier.
func (d *Device) SessionID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// RecordCount returns the number of records consumed this session.
func (d *Device) RecordCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

// StatusCell returns the completion cell mapped at mmio.StatusAddr.
func (d *Device) StatusCell() status.Cell {
	return d.statusCell
}

// Finished reports whether the guest stored the completion value.
func (d *Device) Finished() bool {
	return status.Reached(d.statusCell)
}

// bufIndex maps a bus address onto a buffer offset.
func (d *Device) bufIndex(addr uint32) (int, bool) {
	if addr >= mmio.BufferAddr && addr < mmio.BufferAddr+uint32(len(d.buf)) {
		return int(addr - mmio.BufferAddr), true
	}
	return 0, false
}

// Compile-time interface satisfaction check.
var _ mmio.Port = (*Device)(nil)
