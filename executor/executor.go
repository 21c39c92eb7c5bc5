// Package executor runs external commands (npm, ng, node) for the CI
// pipeline. It captures output, applies working directory, environment and
// timeout options, and reports non-zero exits as *CommandError values that
// carry the captured stderr.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// Result holds the output and error from a command execution
type Result struct {
	Stdout   string
	Stderr   string
	Combined string
	ExitCode int
	Err      error
}

// Output returns the combined output when it was captured, otherwise stdout.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	if r.Combined != "" {
		return r.Combined
	}
	return r.Stdout
}

// Runner executes a program with arguments.
type Runner interface {
	Run(ctx context.Context, program string, args []string, opts ...Option) (*Result, error)
}

// CommandError is returned when a command exits with a non-zero status or
// cannot be started.
type CommandError struct {
	Program  string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", strings.TrimSpace(e.Program+" "+strings.Join(e.Args, " ")), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying process error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Options configures command execution behavior
type Options struct {
	// Output handling
	CaptureStdout     bool
	CaptureStderr     bool
	CaptureCombined   bool
	RedirectToConsole bool

	// Working directory
	WorkingDir string

	// Environment variables (appended to current env)
	Env map[string]string

	// Timeout bounds a single execution. Zero means no limit beyond ctx.
	Timeout time.Duration

	// Custom stdout/stderr writers (for advanced use cases)
	StdoutWriter io.Writer
	StderrWriter io.Writer
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns default execution options
func DefaultOptions() *Options {
	return &Options{
		CaptureStdout:   true,
		CaptureStderr:   true,
		CaptureCombined: false,
		Env:             make(map[string]string),
	}
}

// ProcessRunner implements Runner with os/exec.
type ProcessRunner struct {
	logger   *slog.Logger
	defaults []Option
}

// RunnerOption configures a ProcessRunner.
type RunnerOption func(*ProcessRunner)

// WithLogger sets the logger used to announce commands.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *ProcessRunner) {
		r.logger = logger
	}
}

// WithDefaults sets options applied to every Run before per-call options.
func WithDefaults(opts ...Option) RunnerOption {
	return func(r *ProcessRunner) {
		r.defaults = append(r.defaults, opts...)
	}
}

// NewProcessRunner creates a ProcessRunner.
func NewProcessRunner(opts ...RunnerOption) *ProcessRunner {
	r := &ProcessRunner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Run implements Runner.
func (r *ProcessRunner) Run(ctx context.Context, program string, args []string, opts ...Option) (*Result, error) {
	all := make([]Option, 0, len(r.defaults)+len(opts))
	all = append(all, r.defaults...)
	all = append(all, opts...)

	r.logger.Debug("running command", "program", program, "args", strings.Join(args, " "))
	return New(program, args...).Execute(ctx, all...)
}

// CommandExecutor executes a single program invocation.
type CommandExecutor struct {
	program string
	args    []string
	options *Options
}

// New creates a new CommandExecutor
func New(program string, args ...string) *CommandExecutor {
	return &CommandExecutor{
		program: program,
		args:    args,
		options: DefaultOptions(),
	}
}

// Execute runs the command once. A non-zero exit is returned as *CommandError
// together with the captured Result.
func (c *CommandExecutor) Execute(ctx context.Context, opts ...Option) (*Result, error) {
	options := c.mergeOptions(opts...)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.program, c.args...)
	c.setupCommand(cmd, options)
	stdoutBuf, stderrBuf, combinedBuf := c.setupOutputCapture(cmd, options)

	err := cmd.Run()
	result := c.createResult(stdoutBuf, stderrBuf, combinedBuf, err)
	if err == nil {
		return result, nil
	}

	stderr := result.Stderr
	if stderr == "" {
		stderr = result.Combined
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return result, &CommandError{
		Program:  c.program,
		Args:     c.args,
		ExitCode: result.ExitCode,
		Stderr:   stderr,
		Err:      err,
	}
}

// setupCommand configures the exec.Cmd with working directory and environment
func (c *CommandExecutor) setupCommand(cmd *exec.Cmd, options *Options) {
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}
}

// setupOutputCapture configures stdout and stderr writers for the command
func (c *CommandExecutor) setupOutputCapture(
	cmd *exec.Cmd,
	options *Options,
) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	var stdoutBuf, stderrBuf, combinedBuf bytes.Buffer
	combined := &lockedWriter{w: &combinedBuf}

	cmd.Stdout = joinWriters(options, options.CaptureStdout, &stdoutBuf, combined, os.Stdout, options.StdoutWriter)
	cmd.Stderr = joinWriters(options, options.CaptureStderr, &stderrBuf, combined, os.Stderr, options.StderrWriter)

	return &stdoutBuf, &stderrBuf, &combinedBuf
}

// lockedWriter serializes writes from the stdout and stderr copy goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func joinWriters(options *Options, capture bool, own *bytes.Buffer, combined, console, custom io.Writer) io.Writer {
	var writers []io.Writer
	if capture {
		writers = append(writers, own)
	}
	if options.CaptureCombined {
		writers = append(writers, combined)
	}
	if options.RedirectToConsole {
		writers = append(writers, console)
	}
	if custom != nil {
		writers = append(writers, custom)
	}
	if len(writers) == 0 {
		return nil
	}
	return io.MultiWriter(writers...)
}

// createResult creates a Result from command execution and error
func (c *CommandExecutor) createResult(
	stdoutBuf, stderrBuf, combinedBuf *bytes.Buffer,
	err error,
) *Result {
	result := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Combined: combinedBuf.String(),
		Err:      err,
	}

	var exitErr *exec.ExitError
	switch {
	case err != nil && errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err == nil:
		result.ExitCode = 0
	default:
		result.ExitCode = -1
	}

	return result
}

func (c *CommandExecutor) mergeOptions(opts ...Option) *Options {
	merged := *c.options
	merged.Env = make(map[string]string, len(c.options.Env))
	for k, v := range c.options.Env {
		merged.Env[k] = v
	}

	for _, opt := range opts {
		opt(&merged)
	}

	return &merged
}

// Option functions for fluent configuration

// WithCapture configures output capture
func WithCapture(stdout, stderr, combined bool) Option {
	return func(o *Options) {
		o.CaptureStdout = stdout
		o.CaptureStderr = stderr
		o.CaptureCombined = combined
	}
}

// WithConsoleRedirect enables/disables console output
func WithConsoleRedirect(redirect bool) Option {
	return func(o *Options) {
		o.RedirectToConsole = redirect
	}
}

// WithWorkingDir sets the working directory
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithEnvVar adds a single environment variable
func WithEnvVar(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		o.Env[key] = value
	}
}

// WithTimeout bounds the execution time
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithStdoutWriter sets a custom stdout writer
func WithStdoutWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StdoutWriter = w
	}
}

// WithStderrWriter sets a custom stderr writer
func WithStderrWriter(w io.Writer) Option {
	return func(o *Options) {
		o.StderrWriter = w
	}
}

// Convenience functions for common patterns

// CaptureAll captures combined output and streams it to the console,
// which is how build and test commands are run in CI.
func CaptureAll() Option {
	return func(o *Options) {
		o.CaptureStdout = true
		o.CaptureStderr = true
		o.CaptureCombined = true
		o.RedirectToConsole = true
	}
}

// SilentMode captures output without console redirect
func SilentMode() Option {
	return func(o *Options) {
		o.CaptureStdout = true
		o.CaptureStderr = true
		o.RedirectToConsole = false
	}
}
