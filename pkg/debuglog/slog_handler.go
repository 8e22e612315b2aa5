package debuglog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gbadbg/gbadbg-go/pkg/level"
)

// SlogHandler routes log/slog records through a Logger, so code written
// against the standard structured logger reaches the host console.
//
// Attributes are rendered as space-separated key=value pairs after the
// message. Group names prefix the keys of the attributes they enclose.
// slog has no Fatal level, so records at or above slog.LevelError map
// to Error; fatal handling stays an explicit Logger.Fatalf call.
type SlogHandler struct {
	logger *Logger
	min    slog.Leveler

	// attrText holds attributes accumulated via WithAttrs,
	// preformatted with a leading space.
	attrText string

	// prefix is the accumulated group prefix for attribute keys.
	prefix string
}

// NewSlogHandler creates a handler that transmits records at or above
// min through logger. A nil min defaults to slog.LevelInfo.
func NewSlogHandler(logger *Logger, min slog.Leveler) *SlogHandler {
	return &SlogHandler{logger: logger, min: min}
}

// Enabled reports whether records at lv are transmitted.
func (h *SlogHandler) Enabled(_ context.Context, lv slog.Level) bool {
	min := slog.LevelInfo
	if h.min != nil {
		min = h.min.Level()
	}
	return lv >= min
}

// Handle formats the record and transmits it.
func (h *SlogHandler) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	b.WriteString(rec.Message)
	b.WriteString(h.attrText)
	rec.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})
	h.logger.Log(mapSlogLevel(rec.Level), b.String())
	return nil
}

// WithAttrs returns a handler whose records carry attrs.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	var b strings.Builder
	b.WriteString(h.attrText)
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	nh.attrText = b.String()
	return &nh
}

// WithGroup returns a handler that prefixes attribute keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			appendAttr(b, prefix+a.Key+".", ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(v.String())
}

// mapSlogLevel converts slog levels onto the protocol severity scale.
func mapSlogLevel(lv slog.Level) level.Level {
	switch {
	case lv >= slog.LevelError:
		return level.Error
	case lv >= slog.LevelWarn:
		return level.Warn
	case lv >= slog.LevelInfo:
		return level.Info
	default:
		return level.Debug
	}
}

// Compile-time interface satisfaction check.
var _ slog.Handler = (*SlogHandler)(nil)
