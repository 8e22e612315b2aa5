package debuglog

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/gbadbg/gbadbg-go/pkg/level"
	"github.com/gbadbg/gbadbg-go/pkg/mmio"
)

// Logger formats log records and transmits them through a Sender.
//
// A Logger starts inert: every log method is a silent no-op until Init
// has observed the host handshake. After that only Init reports errors;
// per-record failures (a transmission already in flight) drop the
// remainder of the record and return nothing, so logging never disturbs
// the code path being observed.
type Logger struct {
	sender *Sender
	ready  atomic.Bool
}

// New creates a Logger for port. The Logger is inert until Init
// succeeds.
func New(port mmio.Port) *Logger {
	return &Logger{sender: NewSender(port)}
}

// Init probes for an attached host. It returns ErrNotSupported when
// the handshake is not acknowledged; the Logger then stays inert and
// Init may be retried. Once Init has succeeded, further calls return
// nil without touching the port.
func (l *Logger) Init() error {
	if l.ready.Load() {
		return nil
	}
	if !l.sender.port.Probe() {
		return ErrNotSupported
	}
	l.ready.Store(true)
	return nil
}

// Ready reports whether Init has observed the host handshake.
func (l *Logger) Ready() bool {
	return l.ready.Load()
}

// Log transmits message at lv, one record per line. Lines longer than
// the transmission buffer allows are split into multiple records at
// UTF-8 boundaries. A Fatal message additionally requests host fatal
// handling, exactly once, after its last chunk.
//
// The level must be one of the defined severities; records at other
// codes are discarded by the host.
func (l *Logger) Log(lv level.Level, message string) {
	if !l.ready.Load() {
		return
	}
	l.transmit(lv, message)
	if lv == level.Fatal {
		// The halt is requested even when part of the message was
		// dropped: the fatal condition stands whether or not its text
		// made it out.
		l.sender.Halt()
	}
}

// Logf formats according to format and transmits the result at lv.
func (l *Logger) Logf(lv level.Level, format string, args ...any) {
	if !l.ready.Load() {
		return
	}
	l.Log(lv, fmt.Sprintf(format, args...))
}

// Debugf transmits a formatted record at Debug.
func (l *Logger) Debugf(format string, args ...any) {
	l.Logf(level.Debug, format, args...)
}

// Infof transmits a formatted record at Info.
func (l *Logger) Infof(format string, args ...any) {
	l.Logf(level.Info, format, args...)
}

// Warnf transmits a formatted record at Warn.
func (l *Logger) Warnf(format string, args ...any) {
	l.Logf(level.Warn, format, args...)
}

// Errorf transmits a formatted record at Error.
func (l *Logger) Errorf(format string, args ...any) {
	l.Logf(level.Error, format, args...)
}

// Fatalf transmits a formatted record at Fatal and requests host fatal
// handling.
func (l *Logger) Fatalf(format string, args ...any) {
	l.Logf(level.Fatal, format, args...)
}

// transmit sends every line of message as records at lv, stopping at
// the first dropped chunk.
func (l *Logger) transmit(lv level.Level, message string) {
	if message == "" {
		l.sender.Send(lv, "")
		return
	}

	max := l.sender.Capacity() - 1
	for len(message) > 0 {
		line := message
		if i := strings.IndexByte(message, '\n'); i >= 0 {
			line = message[:i]
			message = message[i+1:]
		} else {
			message = ""
		}

		// A line always produces at least one record, so an
		// intentional blank line reaches the host.
		for {
			chunk := line
			if len(chunk) > max {
				chunk = line[:splitPoint(line, max)]
			}
			if !l.sender.Send(lv, chunk) {
				return
			}
			line = line[len(chunk):]
			if line == "" {
				break
			}
		}
	}
}

// splitPoint returns the largest n <= max such that cutting s at n does
// not land inside a UTF-8 sequence. It backs off at most UTFMax-1
// bytes; byte sequences that never reach a rune start within that
// window (arbitrary binary data) are cut at max so no bytes are lost
// and progress is always made.
func splitPoint(s string, max int) int {
	if max >= len(s) {
		return len(s)
	}
	for n := max; n > max-utf8.UTFMax && n > 0; n-- {
		if utf8.RuneStart(s[n]) {
			return n
		}
	}
	return max
}
