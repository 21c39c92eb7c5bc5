package config

import (
	"fmt"
	"path"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blackbaud/skyux-sdk-actions/actions"
	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/fs"
)

// InputConfigFile names the input holding the YAML file path.
const InputConfigFile = "config-file"

// Load builds the configuration. The config-file input, when set, is read
// from fsys relative to the working directory. The result is validated.
func Load(in *actions.Inputs, fsys fs.Filesystem) (*Config, error) {
	cfg := Default()

	if wd := in.Get("working-directory"); wd != "" {
		cfg.WorkingDirectory = wd
	}

	if file := in.Get(InputConfigFile); file != "" {
		p := path.Join(cfg.WorkingDirectory, file)
		if err := loadFile(fsys, p, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyInputs(in, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(fsys fs.Filesystem, p string, cfg *Config) error {
	data, err := fsys.ReadFile(p)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidConfig,
			"failed to read configuration file", map[string]any{"path": p})
	}

	wd := cfg.WorkingDirectory
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidConfig,
			"failed to parse configuration file", map[string]any{"path": p})
	}
	cfg.WorkingDirectory = wd
	return nil
}

func applyInputs(in *actions.Inputs, cfg *Config) error {
	strs := []struct {
		input string
		dst   *string
	}{
		{"github-token", &cfg.GitHubToken},
		{"npm-token", &cfg.NPMToken},
		{"slack-webhook", &cfg.SlackWebhook},
		{"project", &cfg.Project},
		{"dependency-policy", &cfg.DependencyPolicy},
		{"visual-baselines-branch", &cfg.VisualBaselinesBranch},
		{"log-format", &cfg.LogFormat},
		{"log-level", &cfg.LogLevel},
		{"umbrella-repository", &cfg.Umbrella.Repository},
		{"umbrella-url", &cfg.Umbrella.URL},
		{"umbrella-branch", &cfg.Umbrella.Branch},
		{"umbrella-bump", &cfg.Umbrella.Bump},
		{"browser-stack-username", &cfg.BrowserStack.Username},
		{"browser-stack-access-key", &cfg.BrowserStack.AccessKey},
		{"browser-stack-project", &cfg.BrowserStack.Project},
		{"code-coverage-browser-set", &cfg.Coverage.BrowserSet},
		{"code-coverage-threshold-branches", &cfg.Coverage.ThresholdBranches},
		{"code-coverage-threshold-functions", &cfg.Coverage.ThresholdFunctions},
		{"code-coverage-threshold-lines", &cfg.Coverage.ThresholdLines},
		{"code-coverage-threshold-statements", &cfg.Coverage.ThresholdStatements},
		{"hook-before-script", &cfg.Hooks.BeforeScript},
		{"hook-after-build-public-library-success", &cfg.Hooks.AfterBuildPublicLibrarySuccess},
		{"hook-after-code-coverage-success", &cfg.Hooks.AfterCodeCoverageSuccess},
	}
	for _, s := range strs {
		if v := in.Get(s.input); v != "" {
			*s.dst = v
		}
	}

	bools := []struct {
		input string
		dst   *bool
	}{
		{"npm-dry-run", &cfg.DryRun},
		{"validate-dependencies", &cfg.ValidateDependencies},
	}
	for _, b := range bools {
		if v := in.Get(b.input); v != "" {
			*b.dst = v == "true"
		}
	}

	if v := in.Get("umbrella-timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.WrapWithContext(err, errors.CodeInvalidConfig,
				fmt.Sprintf("invalid umbrella-timeout %q", v), map[string]any{"input": "umbrella-timeout"})
		}
		cfg.Umbrella.Timeout = d
	}
	return nil
}
