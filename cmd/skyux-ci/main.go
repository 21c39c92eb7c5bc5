// Command skyux-ci runs the SKY UX library CI job inside a GitHub Actions
// step. Configuration is read from the action inputs (INPUT_* variables)
// and the optional config-file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"

	"github.com/blackbaud/skyux-sdk-actions/actions"
	"github.com/blackbaud/skyux-sdk-actions/config"
	"github.com/blackbaud/skyux-sdk-actions/depcheck"
	"github.com/blackbaud/skyux-sdk-actions/env"
	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/executor"
	"github.com/blackbaud/skyux-sdk-actions/fs/billy"
	"github.com/blackbaud/skyux-sdk-actions/hooks"
	"github.com/blackbaud/skyux-sdk-actions/logging"
	"github.com/blackbaud/skyux-sdk-actions/notify"
	"github.com/blackbaud/skyux-sdk-actions/npm"
	"github.com/blackbaud/skyux-sdk-actions/pipeline"
	"github.com/blackbaud/skyux-sdk-actions/release"
	"github.com/blackbaud/skyux-sdk-actions/screenshots"
	"github.com/blackbaud/skyux-sdk-actions/workspace"
)

const screenshotsPrefix = ".skypagesvisualbaselinetemp"

func main() {
	os.Exit(run())
}

func run() int {
	reader := &env.OSReader{}
	commands := actions.NewCommands(os.Stdout, reader)

	cfg, err := config.Load(actions.NewInputs(reader), billy.NewOSFS("."))
	if err != nil {
		fail(commands, logging.New(), err)
		return 1
	}
	for _, secret := range cfg.Secrets() {
		commands.Mask(secret)
	}

	level, _ := cfg.Level()
	logger := logging.New(logging.WithFormat(logging.ParseFormat(cfg.LogFormat)), logging.WithLevel(level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := wire(ctx, cfg, actions.ContextFromEnv(reader), commands, logger)
	if err != nil {
		fail(commands, logger, err)
		return 1
	}

	if err := p.Run(ctx); err != nil {
		fail(commands, logger, err)
		return 1
	}
	return 0
}

func wire(ctx context.Context, cfg *config.Config, gh actions.Context, commands *actions.Commands, logger *slog.Logger) (*pipeline.Pipeline, error) {
	dir, err := filepath.Abs(cfg.WorkingDirectory)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	fsys := billy.NewOSFS(dir)
	runner := executor.NewProcessRunner(executor.WithLogger(logger))
	slack := notify.NewSlack(cfg.SlackWebhook, notify.WithLogger(logger))

	local := openCheckout(ctx, logger)

	umbrellaCloner := workspace.NewCloner(dir,
		workspace.WithToken(cfg.GitHubToken),
		workspace.WithTimeout(cfg.Umbrella.Timeout),
		workspace.WithLogger(logger))
	coordinator, err := release.NewCoordinator(cfg.Release(), release.NewWorkspaceCloner(umbrellaCloner),
		release.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	screenshotCloner := workspace.NewCloner(dir,
		workspace.WithToken(cfg.GitHubToken),
		workspace.WithTimeout(cfg.Umbrella.Timeout),
		workspace.WithPrefix(screenshotsPrefix),
		workspace.WithLogger(logger))
	committer := screenshots.NewCommitter(screenshots.Config{
		BaselinesBranch: cfg.VisualBaselinesBranch,
		CheckoutDir:     path.Clean(filepath.ToSlash(cfg.WorkingDirectory)),
	}, fsys, local, screenshots.NewWorkspaceCloner(screenshotCloner), screenshots.WithLogger(logger))

	return pipeline.New(pipeline.Deps{
		Config:    cfg,
		Context:   gh,
		Runner:    runner,
		FS:        fsys,
		Dir:       dir,
		Exporter:  commands,
		Head:      local,
		Installer: npm.NewInstaller(runner, fsys, dir, logger),
		Hooks:     hooks.NewRunner(runner, dir, logger),
		Publisher: npm.NewPublisher(npm.PublisherConfig{
			Dir:        dir,
			FS:         fsys,
			Repository: gh.Repository,
			Tag:        gh.Tag(),
			Token:      cfg.NPMToken,
			DryRun:     cfg.DryRun,
		}, runner, slack, logger),
		Coordinator: coordinator,
		Screenshots: committer,
		Validator: depcheck.New(fsys,
			depcheck.WithPolicy(depcheck.Policy(cfg.DependencyPolicy)),
			depcheck.WithLogger(logger)),
	}, pipeline.WithLogger(logger)), nil
}

// fail marks the job failed with the operator-facing message of err.
func fail(commands *actions.Commands, logger *slog.Logger, err error) {
	var pe *errors.PlatformError
	if errors.As(err, &pe) && pe.Message != "" {
		if pe.Cause != nil {
			logger.Error("[SKY UX ERROR]:", "error", pe.Cause)
		}
		commands.SetFailed(pe.Message)
		return
	}
	commands.SetFailed(err.Error())
}
