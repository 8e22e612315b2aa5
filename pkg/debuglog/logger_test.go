package debuglog

import (
	"errors"
	"strings"
	"testing"

	"github.com/gbadbg/gbadbg-go/pkg/level"
)

func newReadyLogger(t *testing.T, capacity int) (*Logger, *fakePort) {
	t.Helper()
	port := newFakePort(capacity)
	l := New(port)
	if err := l.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return l, port
}

func TestLoggerInertBeforeInit(t *testing.T) {
	port := newFakePort(8)
	l := New(port)

	l.Log(level.Info, "too early")
	l.Fatalf("still too early")

	if len(port.ops) != 0 {
		t.Errorf("port touched before Init: %v", port.ops)
	}
}

func TestLoggerInitNotSupported(t *testing.T) {
	port := newFakePort(8)
	port.probeOK = false
	l := New(port)

	err := l.Init()
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("Init: got %v, want ErrNotSupported", err)
	}
	if l.Ready() {
		t.Error("Ready reported true after failed probe")
	}

	// Still inert: the failed probe must be the only port operation.
	l.Log(level.Info, "dropped")
	if len(port.ops) != 1 || port.ops[0] != "probe" {
		t.Errorf("port ops after failed Init: %v", port.ops)
	}
}

func TestLoggerInitIdempotent(t *testing.T) {
	l, port := newReadyLogger(t, 8)

	if err := l.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if port.probes != 1 {
		t.Errorf("probes: got %d, want 1", port.probes)
	}
}

func TestLoggerInitRetry(t *testing.T) {
	port := newFakePort(8)
	port.probeOK = false
	l := New(port)

	if err := l.Init(); err == nil {
		t.Fatal("Init succeeded without a host")
	}

	// The host appears later in the emulator session.
	port.probeOK = true
	if err := l.Init(); err != nil {
		t.Fatalf("Init retry failed: %v", err)
	}
	if !l.Ready() {
		t.Error("Ready reported false after successful retry")
	}
	if port.probes != 2 {
		t.Errorf("probes: got %d, want 2", port.probes)
	}
}

func TestLoggerSingleChunk(t *testing.T) {
	l, port := newReadyLogger(t, 8)

	l.Log(level.Info, "hi")

	if got := port.messages(); len(got) != 1 || got[0] != "hi" {
		t.Errorf("messages: got %v, want [hi]", got)
	}
	if port.records[0].lv != level.Info {
		t.Errorf("level: got %v, want INFO", port.records[0].lv)
	}
}

func TestLoggerChunksLongLine(t *testing.T) {
	l, port := newReadyLogger(t, 8)

	// 10 bytes with a 7-byte chunk budget: 7 then 3.
	l.Log(level.Info, "0123456789")

	want := []string{"0123456", "789"}
	got := port.messages()
	if len(got) != len(want) {
		t.Fatalf("messages: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoggerChunkCount(t *testing.T) {
	tests := []struct {
		length int
		chunks int
	}{
		{1, 1},
		{7, 1},
		{8, 2},
		{14, 2},
		{21, 3},
		{22, 4},
	}

	for _, tt := range tests {
		l, port := newReadyLogger(t, 8)
		l.Log(level.Debug, strings.Repeat("x", tt.length))
		if got := len(port.records); got != tt.chunks {
			t.Errorf("length %d: got %d chunks, want %d", tt.length, got, tt.chunks)
		}
	}
}

func TestLoggerUTF8Boundary(t *testing.T) {
	l, port := newReadyLogger(t, 8)

	// "é" is two bytes; a naive cut at 7 would split it.
	l.Log(level.Info, "abcdefé")

	want := []string{"abcdef", "é"}
	got := port.messages()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("messages: got %q, want %q", got, want)
	}
}

func TestLoggerSplitsLines(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"two lines", "first\nsecond", []string{"first", "second"}},
		{"interior blank line", "a\n\nb", []string{"a", "", "b"}},
		{"trailing newline", "done\n", []string{"done"}},
		{"newline only", "\n", []string{""}},
		{"empty message", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, port := newReadyLogger(t, 64)
			l.Log(level.Info, tt.message)

			got := port.messages()
			if len(got) != len(tt.want) {
				t.Fatalf("messages: got %q, want %q", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("record %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoggerFatalHaltsOnceAfterChunks(t *testing.T) {
	l, port := newReadyLogger(t, 8)

	l.Log(level.Fatal, "0123456789")

	if len(port.records) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(port.records))
	}
	for i, r := range port.records {
		if r.lv != level.Fatal {
			t.Errorf("chunk %d level: got %v, want FATAL", i, r.lv)
		}
	}
	if port.halts != 1 {
		t.Errorf("halts: got %d, want 1", port.halts)
	}
	if last := port.ops[len(port.ops)-1]; last != "halt" {
		t.Errorf("last port op: got %q, want halt", last)
	}
}

func TestLoggerFatalDroppedStillHalts(t *testing.T) {
	l, port := newReadyLogger(t, 8)

	// Hold the guard so the fatal text is dropped.
	l.sender.busy.Store(true)
	l.Log(level.Fatal, "lost words")
	l.sender.busy.Store(false)

	if len(port.records) != 0 {
		t.Errorf("records: got %+v, want none", port.records)
	}
	if port.halts != 1 {
		t.Errorf("halts: got %d, want 1", port.halts)
	}
}

func TestLoggerReentrantEmitDropped(t *testing.T) {
	l, port := newReadyLogger(t, 32)

	port.onWrite = func() {
		port.onWrite = nil
		l.Log(level.Error, "from interrupt")
	}
	l.Log(level.Info, "main line")

	if got := port.messages(); len(got) != 1 || got[0] != "main line" {
		t.Errorf("messages: got %q, want [main line]", got)
	}

	// Logging works again once the outer transmission finished.
	l.Log(level.Info, "after")
	if got := port.messages(); len(got) != 2 || got[1] != "after" {
		t.Errorf("messages: got %q", got)
	}
}

func TestLoggerReentrantDropMidMessage(t *testing.T) {
	l, port := newReadyLogger(t, 8)

	// Interrupt during the second chunk's buffer write. The
	// interrupt's own message is dropped whole; the interrupted
	// message still arrives complete.
	port.onWrite = func() {
		if len(port.records) == 1 {
			port.onWrite = nil
			l.Log(level.Error, "from interrupt")
		}
	}
	l.Log(level.Info, "01234567890123456789")

	want := []string{"0123456", "7890123", "456789"}
	got := port.messages()
	if len(got) != len(want) {
		t.Fatalf("messages: got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: got %q, want %q", i, got[i], want[i])
		}
	}
	for i, r := range port.records {
		if r.lv != level.Info {
			t.Errorf("record %d level: got %v, want INFO", i, r.lv)
		}
	}
}

func TestLoggerLevelMethods(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *Logger)
		want level.Level
	}{
		{"Debugf", func(l *Logger) { l.Debugf("n=%d", 1) }, level.Debug},
		{"Infof", func(l *Logger) { l.Infof("n=%d", 2) }, level.Info},
		{"Warnf", func(l *Logger) { l.Warnf("n=%d", 3) }, level.Warn},
		{"Errorf", func(l *Logger) { l.Errorf("n=%d", 4) }, level.Error},
		{"Fatalf", func(l *Logger) { l.Fatalf("n=%d", 5) }, level.Fatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, port := newReadyLogger(t, 32)
			tt.log(l)

			if len(port.records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(port.records))
			}
			if got := port.records[0].lv; got != tt.want {
				t.Errorf("level: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitPoint(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want int
	}{
		{"shorter than max", "abc", 7, 3},
		{"exactly max", "abcdefg", 7, 7},
		{"ascii cut", "abcdefgh", 7, 7},
		{"two-byte rune straddles", "abcdefé", 7, 6},
		{"three-byte rune straddles", "abcde€!", 7, 5},
		{"four-byte rune straddles", "abcd\U0001F600", 7, 4},
		{"continuation garbage", "\x80\x80\x80\x80\x80\x80\x80\x80", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitPoint(tt.s, tt.max); got != tt.want {
				t.Errorf("splitPoint(%q, %d) = %d, want %d", tt.s, tt.max, got, tt.want)
			}
		})
	}
}
