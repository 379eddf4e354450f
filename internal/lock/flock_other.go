//go:build !unix

package lock

import "os"

// lockFile is a no-op where flock is unavailable; only the recorded pid
// guards the file.
func lockFile(*os.File) error {
	return nil
}
