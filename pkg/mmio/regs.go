package mmio

// Register layout of the debug interface. Addresses are untyped so they
// can serve both as bus addresses in the emulated device and as raw
// pointers in the hardware port.
const (
	// BufferAddr is the base address of the transmission buffer.
	BufferAddr = 0x04FF_F600

	// BufferSize is the transmission buffer capacity in bytes. A chunk
	// occupies at most BufferSize bytes including its terminator.
	BufferSize = 256

	// SendAddr is the 16-bit send register. Writing FlagSend consumes
	// the buffer as one record at the level code in the low bits;
	// writing FlagHalt requests fatal handling.
	SendAddr = 0x04FF_F700

	// EnableAddr is the 16-bit enable register used by the presence
	// handshake.
	EnableAddr = 0x04FF_F780

	// StatusAddr is the completion-signal byte polled by host
	// automation. It lives in working RAM, outside the debug register
	// block, and is never touched by the logging path.
	StatusAddr = 0x0203_FFFF
)

// Send register bits.
const (
	// FlagSend consumes the staged chunk at the level in the low bits.
	FlagSend uint16 = 0x0100

	// FlagHalt requests host fatal handling. The buffer is not
	// consumed; fatal record text travels in ordinary FlagSend chunks
	// beforehand.
	FlagHalt uint16 = 0x0200

	// LevelMask extracts the level code from a send register value.
	LevelMask uint16 = 0x00FF
)

// Enable handshake values.
const (
	// EnableMagic is written to EnableAddr to request debug output.
	EnableMagic uint16 = 0xC0DE

	// EnableAck is read back from EnableAddr when a host acknowledged
	// the handshake.
	EnableAck uint16 = 0x1DEA
)

// In-buffer byte values.
const (
	// Terminator ends a chunk. The host stops reading the buffer at
	// the first terminator byte.
	Terminator byte = 0x00

	// Substitute replaces terminator bytes that appear inside record
	// text, so a record can never end itself early.
	Substitute byte = 0x1A
)
