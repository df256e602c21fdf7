package release

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every failure surfaced by a workflow step wraps exactly one of them.
var (
	// ErrManifest signals a missing, malformed or incomplete manifest.
	ErrManifest = errors.New("manifest error")
	// ErrStaging signals that the build output could not be copied into the staging directory.
	ErrStaging = errors.New("staging error")
	// ErrPackaging signals that the packaging executable is unusable or failed.
	ErrPackaging = errors.New("packaging error")
	// ErrRename signals that a packager output could not be renamed.
	ErrRename = errors.New("rename error")
	// ErrArchive signals that the zip archive could not be written.
	ErrArchive = errors.New("archive error")
	// ErrClean signals that the output directory could not be removed.
	ErrClean = errors.New("clean error")
	// ErrCommand signals that an external tool (build, formatter) failed.
	ErrCommand = errors.New("command error")
)

// StepError describes a terminal failure of a single workflow step.
type StepError struct {
	// Kind is one of the Err* sentinels of this package.
	Kind error
	// Op is a short description of the failed operation.
	Op string
	// Path is the file or directory involved, if any.
	Path string
	// Code is the exit status of the external process, if one was involved.
	Code int
	// Err is the underlying cause, may be nil.
	Err error
}

// NewError builds a StepError of the given kind.
func NewError(kind error, op, path string, err error) *StepError {
	return &StepError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// Error renders "<kind>: <op> <path>: <cause>".
func (e *StepError) Error() string {
	var b strings.Builder

	b.WriteString(e.Kind.Error())
	b.WriteString(": ")
	b.WriteString(e.Op)

	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}

	if e.Code != 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.Code)
	}

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// ExitCode maps an error returned by a workflow to a process exit status.
// A failed external process propagates its own status, anything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var stepErr *StepError
	if errors.As(err, &stepErr) && stepErr.Code > 0 {
		return stepErr.Code
	}

	return 1
}
