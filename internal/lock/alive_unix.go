//go:build unix

package lock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// processAlive sends pid the null signal. EPERM means the process
// exists but belongs to someone else.
func processAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
