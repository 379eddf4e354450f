package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// SyslogWriter is the subset of *syslog.Writer used by SyslogHandler.
type SyslogWriter interface {
	Debug(m string) error
	Info(m string) error
	Warning(m string) error
	Err(m string) error
}

// SyslogHandler is a slog.Handler that formats records like the text
// handler, minus time and level which syslog records itself, and sends each
// one at the matching syslog severity.
type SyslogHandler struct {
	inner slog.Handler
	sink  *syslogSink
	level slog.Leveler
}

type syslogSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
	w   SyslogWriter
}

// NewSyslogHandler returns a handler writing records at or above level to w.
func NewSyslogHandler(w SyslogWriter, level slog.Leveler) *SyslogHandler {
	sink := &syslogSink{w: w}
	inner := slog.NewTextHandler(&sink.buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey) {
				return slog.Attr{}
			}
			return a
		},
	})
	return &SyslogHandler{inner: inner, sink: sink, level: level}
}

// Enabled implements slog.Handler.
func (h *SyslogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *SyslogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()

	h.sink.buf.Reset()
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	line := strings.TrimSuffix(h.sink.buf.String(), "\n")

	switch {
	case r.Level >= slog.LevelError:
		return h.sink.w.Err(line)
	case r.Level >= slog.LevelWarn:
		return h.sink.w.Warning(line)
	case r.Level >= slog.LevelInfo:
		return h.sink.w.Info(line)
	default:
		return h.sink.w.Debug(line)
	}
}

// WithAttrs implements slog.Handler.
func (h *SyslogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SyslogHandler{inner: h.inner.WithAttrs(attrs), sink: h.sink, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *SyslogHandler) WithGroup(name string) slog.Handler {
	return &SyslogHandler{inner: h.inner.WithGroup(name), sink: h.sink, level: h.level}
}
