package daemon

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitStartup = 1
	ExitRuntime = 2
)

// Kind classifies daemon failures by the phase they occur in.
type Kind string

const (
	// KindStartup covers lock conflicts, privilege and device acquisition failures.
	KindStartup Kind = "startup"
	// KindRuntime covers device I/O failures inside the poll loop.
	KindRuntime Kind = "runtime"
)

// Error is a classified daemon failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// StartupError wraps err as a startup failure of op.
func StartupError(op string, err error) error {
	return &Error{Kind: KindStartup, Op: op, Err: err}
}

// RuntimeError wraps err as a poll loop failure of op.
func RuntimeError(op string, err error) error {
	return &Error{Kind: KindRuntime, Op: op, Err: err}
}

// ExitCode maps err to the process exit status.
// Unclassified errors are treated as startup failures.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var de *Error
	if errors.As(err, &de) && de.Kind == KindRuntime {
		return ExitRuntime
	}
	return ExitStartup
}
