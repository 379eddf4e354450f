//go:build !windows && !plan9

package logging

import (
	"fmt"
	"log/syslog"
)

func dialSyslog(tag string) (*syslog.Writer, error) {
	w, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, tag)
	if err != nil {
		return nil, fmt.Errorf("connect to syslog: %w", err)
	}
	return w, nil
}
