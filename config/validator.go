package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/blackbaud/skyux-sdk-actions/depcheck"
	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/errors"
)

// Validate reports every problem in one error.
func (c *Config) Validate() error {
	var problems []string

	switch domain.BumpKind(c.Umbrella.Bump) {
	case domain.BumpPatch, domain.BumpMinor:
	default:
		problems = append(problems, fmt.Sprintf("umbrella bump %q must be patch or minor", c.Umbrella.Bump))
	}

	if owner, name, ok := strings.Cut(c.Umbrella.Repository, "/"); !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		problems = append(problems, fmt.Sprintf("umbrella repository %q must be owner/name", c.Umbrella.Repository))
	}

	if c.Umbrella.Branch == "" {
		problems = append(problems, "umbrella branch is required")
	}

	if c.Umbrella.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("umbrella timeout %s must be positive", c.Umbrella.Timeout))
	}

	if !depcheck.Policy(c.DependencyPolicy).Valid() {
		problems = append(problems, fmt.Sprintf("dependency policy %q must be minimum or satisfies", c.DependencyPolicy))
	}

	switch c.LogFormat {
	case "actions", "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("log format %q must be actions, json or text", c.LogFormat))
	}

	if _, err := c.Level(); err != nil {
		problems = append(problems, fmt.Sprintf("log level %q is invalid", c.LogLevel))
	}

	if c.WorkingDirectory == "" {
		problems = append(problems, "working directory is required")
	}

	if len(problems) > 0 {
		return errors.New(
			errors.CodeInvalidConfig,
			fmt.Sprintf("configuration validation failed: %s", strings.Join(problems, "; ")),
		)
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}
