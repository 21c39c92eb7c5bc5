// Package npm installs workspace dependencies and publishes built libraries.
package npm

import (
	"context"
	"log/slog"

	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/executor"
	"github.com/blackbaud/skyux-sdk-actions/fs"
)

// PipelineSettings is installed next to the workspace dependencies; it
// provides the karma and protractor runners.
const PipelineSettings = "blackbaud/skyux-sdk-pipeline-settings"

// Installer installs npm dependencies in a workspace.
type Installer struct {
	runner executor.Runner
	fs     fs.Filesystem
	dir    string
	logger *slog.Logger
}

// NewInstaller runs npm in dir. fsys must be rooted at dir.
func NewInstaller(runner executor.Runner, fsys fs.Filesystem, dir string, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Installer{runner: runner, fs: fsys, dir: dir, logger: logger}
}

// Install runs "npm ci" when a lock file exists and "npm install"
// otherwise, then adds the pipeline settings without saving them.
func (i *Installer) Install(ctx context.Context) error {
	hasLock, err := i.fs.Exists("package-lock.json")
	if err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, "Packages installation failed.")
	}

	args := []string{"install"}
	if hasLock {
		args = []string{"ci"}
	}

	steps := [][]string{
		args,
		{"install", "--no-save", "--no-audit", PipelineSettings},
	}
	for _, step := range steps {
		if _, err := i.runner.Run(ctx, "npm", step, executor.WithWorkingDir(i.dir), executor.CaptureAll()); err != nil {
			return errors.Wrap(err, errors.CodeExecutionFailed, "Packages installation failed.")
		}
	}
	i.logger.Debug("installed packages", "lockfile", hasLock)
	return nil
}
