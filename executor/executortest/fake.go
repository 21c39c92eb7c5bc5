// Package executortest provides a scripted executor.Runner for tests.
package executortest

import (
	"context"
	"strings"
	"sync"

	"github.com/blackbaud/skyux-sdk-actions/executor"
)

// Call records one Run invocation.
type Call struct {
	Program string
	Args    []string
	Options *executor.Options
}

// String renders the call as a command line.
func (c Call) String() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// Response is returned for calls whose command line starts with Prefix.
type Response struct {
	Prefix string
	Output string
	Err    error
	// Hook runs before the response is returned.
	Hook func(Call)
}

// Runner records calls and answers them from Responses. The first
// response whose Prefix matches wins; unmatched calls succeed with no output.
type Runner struct {
	mu        sync.Mutex
	Responses []Response
	calls     []Call
}

// NewRunner returns a Runner with the given responses.
func NewRunner(responses ...Response) *Runner {
	return &Runner{Responses: responses}
}

// Run implements executor.Runner.
func (r *Runner) Run(_ context.Context, program string, args []string, opts ...executor.Option) (*executor.Result, error) {
	options := executor.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	call := Call{Program: program, Args: append([]string(nil), args...), Options: options}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	responses := r.Responses
	r.mu.Unlock()

	line := call.String()
	for _, resp := range responses {
		if !strings.HasPrefix(line, resp.Prefix) {
			continue
		}
		if resp.Hook != nil {
			resp.Hook(call)
		}
		result := &executor.Result{Stdout: resp.Output, Combined: resp.Output, Err: resp.Err}
		if resp.Err != nil {
			result.ExitCode = 1
			return result, &executor.CommandError{Program: program, Args: args, ExitCode: 1, Err: resp.Err}
		}
		return result, nil
	}
	return &executor.Result{}, nil
}

// Calls returns the recorded calls.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded calls as command lines.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.String())
	}
	return out
}
