package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command is a single external process invocation.
type Command struct {
	// Name is the executable, resolved through PATH when it has no separator.
	Name string
	// Args are passed verbatim, without shell interpretation.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

// String renders the command line with quoted arguments where needed.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)

	for _, part := range append([]string{c.Name}, c.Args...) {
		if part == "" || strings.ContainsAny(part, " \t\"") {
			part = `"` + part + `"`
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, " ")
}

// Result is the outcome of a process that was started.
type Result struct {
	// ExitCode is the process exit status.
	ExitCode int
	// Output holds combined stdout and stderr.
	Output []byte
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner starts a command and waits for it to exit.
// A process that ran and exited non-zero is reported through Result, not error;
// error is reserved for processes that could not be started or waited for.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Output, when set, receives the process output as it is produced.
	Output io.Writer
}

// NewExecRunner returns an ExecRunner streaming process output to w.
func NewExecRunner(w io.Writer) *ExecRunner {
	return &ExecRunner{Output: w}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	var (
		captured bytes.Buffer
		sink     io.Writer = &captured
	)

	if r.Output != nil {
		sink = io.MultiWriter(&captured, r.Output)
	}

	process := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	process.Dir = cmd.Dir
	process.Stdout = sink
	process.Stderr = sink

	err := process.Run()
	if err == nil {
		return &Result{Output: captured.Bytes()}, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("run %s: %w", cmd.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Result{ExitCode: exitErr.ExitCode(), Output: captured.Bytes()}, nil
	}

	return nil, fmt.Errorf("run %s: %w", cmd.Name, err)
}
