package capture

import (
	"context"
	"log/slog"

	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// SlogSink writes captured records to an slog.Logger.
// Useful for development when you want to see guest output in console.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a new SlogSink that writes to the given slog.Logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Capture writes the record to the slog logger. The record's protocol
// severity selects the slog level; Fatal surfaces as slog Error.
func (s *SlogSink) Capture(rec Record) {
	attrs := []slog.Attr{
		slog.String("session_id", rec.SessionID),
		slog.Uint64("seq", rec.Seq),
		slog.String("guest_level", rec.Level.String()),
	}
	s.logger.LogAttrs(context.Background(), slogLevel(rec.Level), rec.Message, attrs...)
}

// slogLevel maps a protocol severity onto the closest slog level.
func slogLevel(lv level.Level) slog.Level {
	switch lv {
	case level.Fatal, level.Error:
		return slog.LevelError
	case level.Warn:
		return slog.LevelWarn
	case level.Info:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Compile-time interface satisfaction check.
var _ Sink = (*SlogSink)(nil)
