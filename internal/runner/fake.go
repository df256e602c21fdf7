package runner

import (
	"context"
	"sync"
)

// Fake is a scripted Runner. Each call is recorded; Handler, when set, decides
// the outcome, otherwise every command succeeds with empty output.
type Fake struct {
	// Handler produces the result for a command.
	Handler func(ctx context.Context, cmd Command) (*Result, error)

	mu    sync.Mutex
	calls []Command
}

// Run implements Runner.
func (f *Fake) Run(ctx context.Context, cmd Command) (*Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.Handler == nil {
		return new(Result), nil
	}

	return f.Handler(ctx, cmd)
}

// Calls returns a copy of the recorded commands.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Command(nil), f.calls...)
}

// ExitWith returns a Handler that always exits with code and output.
func ExitWith(code int, output string) func(context.Context, Command) (*Result, error) {
	return func(context.Context, Command) (*Result, error) {
		return &Result{ExitCode: code, Output: []byte(output)}, nil
	}
}
