// Package logging builds the slog loggers used by spicd: a text handler on
// stderr while attached to a terminal and a syslog handler once detached.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Tag is the syslog identifier.
const Tag = "spicd"

// Level returns the log level for the debug flag.
func Level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewText returns a logger writing text records to w (stderr if nil).
func NewText(w io.Writer, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(debug),
	}))
}

// NewSyslog returns a logger on the daemon facility and the closer for the
// underlying connection.
func NewSyslog(debug bool) (*slog.Logger, io.Closer, error) {
	w, err := dialSyslog(Tag)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(NewSyslogHandler(w, Level(debug))), w, nil
}
