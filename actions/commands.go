package actions

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/blackbaud/skyux-sdk-actions/env"
)

// Commands writes workflow commands to the runner.
type Commands struct {
	mu     sync.Mutex
	out    io.Writer
	env    env.Reader
	failed bool
}

// NewCommands writes commands to out and locates GITHUB_ENV through r.
func NewCommands(out io.Writer, r env.Reader) *Commands {
	return &Commands{out: out, env: r}
}

func (c *Commands) issue(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Mask hides value in all later log output.
func (c *Commands) Mask(value string) {
	if value == "" {
		return
	}
	c.issue("::add-mask::%s", escapeData(value))
}

// SetFailed emits an error annotation and marks the run failed. The
// caller decides the exit code from Failed.
func (c *Commands) SetFailed(msg string) {
	c.mu.Lock()
	c.failed = true
	c.mu.Unlock()
	c.issue("::error::%s", escapeData(msg))
}

// Failed reports whether SetFailed was called.
func (c *Commands) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// Group starts a collapsible section in the job log.
func (c *Commands) Group(title string) {
	c.issue("::group::%s", escapeData(title))
}

// EndGroup closes the section opened by Group.
func (c *Commands) EndGroup() {
	c.issue("::endgroup::")
}

// ExportVariable sets name for this process and for later steps of the
// job. Later steps read GITHUB_ENV; without it only the process
// environment is updated.
func (c *Commands) ExportVariable(name, value string) error {
	if err := os.Setenv(name, value); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}

	path := c.env.Getenv("GITHUB_ENV")
	if path == "" {
		return nil
	}

	delimiter := "ghadelimiter_" + rand.Text()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("unexpected delimiter in %s", name)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open GITHUB_ENV: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		return fmt.Errorf("write GITHUB_ENV: %w", err)
	}
	return nil
}

// escapeData escapes the characters the runner treats as command syntax.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
