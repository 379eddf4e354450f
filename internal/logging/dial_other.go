//go:build windows || plan9

package logging

import (
	"errors"
	"io"
)

type unsupportedWriter interface {
	SyslogWriter
	io.Closer
}

func dialSyslog(string) (unsupportedWriter, error) {
	return nil, errors.New("syslog is not available on this platform")
}
