// Package lock implements the single-instance guard: a pid file whose
// recorded process, when alive, blocks another daemon from starting.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyRunning is matched by errors.Is when a live daemon holds the lock.
var ErrAlreadyRunning = errors.New("daemon already running")

// RunningError reports the live process recorded in the pid file.
type RunningError struct {
	PID  int
	Path string
}

func (e *RunningError) Error() string {
	return fmt.Sprintf("spicd already appears to be running as process %d; if in reality no spicd is running, remove %s",
		e.PID, e.Path)
}

// Unwrap returns ErrAlreadyRunning.
func (e *RunningError) Unwrap() error {
	return ErrAlreadyRunning
}

// errLocked reports a pid file whose lock is held by another open handle.
var errLocked = errors.New("pid file is locked")

// PIDFile is a pid file at a fixed path. While acquired, the file is held
// open with an exclusive lock so concurrent starters cannot both own it.
type PIDFile struct {
	path  string
	alive func(pid int) bool
	f     *os.File
}

// New returns a PIDFile for path.
func New(path string) *PIDFile {
	return &PIDFile{
		path:  path,
		alive: processAlive,
	}
}

// Path returns the pid file location.
func (p *PIDFile) Path() string {
	return p.path
}

// Owner returns the pid recorded in the file.
// A missing file yields an error matching os.ErrNotExist.
func (p *PIDFile) Owner() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, fmt.Errorf("pid file %s is empty", p.path)
	}

	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("pid file %s: invalid pid %q: %w", p.path, fields[0], err)
	}
	return pid, nil
}

// Check returns a *RunningError if the recorded process is alive.
// Missing, unparsable or dead records are stale and do not block.
func (p *PIDFile) Check() error {
	pid, err := p.Owner()
	if err != nil {
		return nil
	}
	if pid > 0 && p.alive(pid) {
		return &RunningError{PID: pid, Path: p.path}
	}
	return nil
}

// Acquire records pid in the pid file and keeps it locked until Release.
// A live owner, whether it holds the lock or is only recorded, yields an
// error matching ErrAlreadyRunning. A record that names pid is taken over.
func (p *PIDFile) Acquire(pid int) error {
	if p.f != nil {
		return fmt.Errorf("pid file %s is already held", p.path)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create pid file directory: %w", err)
	}

	f, err := p.openLocked()
	if err != nil {
		return err
	}

	if err := p.Check(); err != nil {
		var running *RunningError
		if !errors.As(err, &running) || running.PID != pid {
			_ = f.Close()
			return err
		}
	}

	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return fmt.Errorf("write pid file: %w", err)
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(pid)+"\n"), 0); err != nil {
		_ = f.Close()
		return fmt.Errorf("write pid file: %w", err)
	}

	p.f = f
	return nil
}

// openLocked opens the pid file and takes its lock. The file is reopened
// when the previous holder removed it between the open and the lock.
func (p *PIDFile) openLocked() (*os.File, error) {
	for {
		f, err := os.OpenFile(p.path, os.O_RDWR|os.O_CREATE, 0644)
		if err != nil {
			return nil, fmt.Errorf("open pid file: %w", err)
		}

		if err := lockFile(f); err != nil {
			_ = f.Close()
			if errors.Is(err, errLocked) {
				return nil, p.heldError()
			}
			return nil, fmt.Errorf("lock pid file: %w", err)
		}

		current, err := p.isCurrent(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if current {
			return f, nil
		}
		_ = f.Close()
	}
}

// isCurrent reports whether f is still the file at the pid file path.
func (p *PIDFile) isCurrent(f *os.File) (bool, error) {
	held, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat pid file: %w", err)
	}
	onDisk, err := os.Stat(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat pid file: %w", err)
	}
	return os.SameFile(held, onDisk), nil
}

// heldError describes a pid file locked by another handle.
func (p *PIDFile) heldError() error {
	if pid, err := p.Owner(); err == nil && pid > 0 {
		return &RunningError{PID: pid, Path: p.path}
	}
	return fmt.Errorf("%s: %w: %w", p.path, errLocked, ErrAlreadyRunning)
}

// Release removes the pid file and drops its lock. Releasing a PIDFile
// that is not held is a no-op.
func (p *PIDFile) Release() error {
	if p.f == nil {
		return nil
	}

	err := os.Remove(p.path)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	closeErr := p.f.Close()
	p.f = nil
	return errors.Join(err, closeErr)
}
