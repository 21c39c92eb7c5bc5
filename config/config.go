// Package config assembles the CI configuration from action inputs and an
// optional YAML file.
//
// Inputs always win over the file. Secrets (github-token, npm-token,
// browser-stack-access-key, slack-webhook) are accepted as inputs only and
// are never read from the file.
//
//	cfg, err := config.Load(actions.NewInputs(&env.OSReader{}), billy.NewOSFS("."))
//	if err != nil {
//	    return err
//	}
//	for _, s := range cfg.Secrets() {
//	    commands.Mask(s)
//	}
package config

import (
	"time"

	"github.com/blackbaud/skyux-sdk-actions/depcheck"
	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/release"
	"github.com/blackbaud/skyux-sdk-actions/workspace"
)

// Config is the complete CI configuration.
type Config struct {
	GitHubToken  string `yaml:"-"`
	NPMToken     string `yaml:"-"`
	SlackWebhook string `yaml:"-"`

	WorkingDirectory      string `yaml:"working-directory"`
	Project               string `yaml:"project"`
	DryRun                bool   `yaml:"npm-dry-run"`
	ValidateDependencies  bool   `yaml:"validate-dependencies"`
	DependencyPolicy      string `yaml:"dependency-policy"`
	VisualBaselinesBranch string `yaml:"visual-baselines-branch"`
	LogFormat             string `yaml:"log-format"`
	LogLevel              string `yaml:"log-level"`

	Umbrella     UmbrellaConfig     `yaml:"umbrella"`
	BrowserStack BrowserStackConfig `yaml:"browser-stack"`
	Coverage     CoverageConfig     `yaml:"code-coverage"`
	Hooks        HooksConfig        `yaml:"hooks"`
}

// UmbrellaConfig configures tagging of the umbrella repository.
type UmbrellaConfig struct {
	Repository string        `yaml:"repository"`
	URL        string        `yaml:"url"`
	Branch     string        `yaml:"branch"`
	Bump       string        `yaml:"bump"`
	Timeout    time.Duration `yaml:"timeout"`
}

// BrowserStackConfig holds the BrowserStack credentials passed to the test runners.
type BrowserStackConfig struct {
	Username  string `yaml:"username"`
	AccessKey string `yaml:"-"`
	Project   string `yaml:"project"`
}

// CoverageConfig holds the karma runner thresholds.
type CoverageConfig struct {
	BrowserSet          string `yaml:"browser-set"`
	ThresholdBranches   string `yaml:"threshold-branches"`
	ThresholdFunctions  string `yaml:"threshold-functions"`
	ThresholdLines      string `yaml:"threshold-lines"`
	ThresholdStatements string `yaml:"threshold-statements"`
}

// HooksConfig names lifecycle hook scripts relative to the working directory.
type HooksConfig struct {
	BeforeScript                   string `yaml:"before-script"`
	AfterBuildPublicLibrarySuccess string `yaml:"after-build-public-library-success"`
	AfterCodeCoverageSuccess       string `yaml:"after-code-coverage-success"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		WorkingDirectory:      ".",
		DependencyPolicy:      string(depcheck.PolicySatisfies),
		VisualBaselinesBranch: "master",
		LogFormat:             "actions",
		LogLevel:              "info",
		Umbrella: UmbrellaConfig{
			Repository: release.DefaultRepository,
			Branch:     release.DefaultBranch,
			Bump:       string(domain.BumpPatch),
			Timeout:    workspace.DefaultTimeout,
		},
	}
}

// Secrets returns the non-empty secret values that must be masked.
func (c *Config) Secrets() []string {
	var out []string
	for _, s := range []string{c.GitHubToken, c.NPMToken, c.SlackWebhook, c.BrowserStack.AccessKey} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Release returns the coordinator configuration.
func (c *Config) Release() release.Config {
	return release.Config{
		Repository: c.Umbrella.Repository,
		URL:        c.Umbrella.URL,
		Branch:     c.Umbrella.Branch,
		DryRun:     c.DryRun,
		Bump:       domain.BumpKind(c.Umbrella.Bump),
	}
}
