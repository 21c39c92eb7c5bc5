// Package hooks runs the Node.js lifecycle scripts a workflow configures.
//
// A hook script must export an async function named runAsync:
//
//	module.exports = {
//	  runAsync: async () => {}
//	};
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/executor"
)

// Hook names, matching the action inputs that configure them.
const (
	BeforeScript                   = "hook-before-script"
	AfterBuildPublicLibrarySuccess = "hook-after-build-public-library-success"
	AfterCodeCoverageSuccess       = "hook-after-code-coverage-success"
)

const loader = `require(process.argv[1]).runAsync().catch((err) => {
  console.error('[SKY UX ERROR]:', err);
  process.exit(1);
});`

// Runner runs hooks relative to a working directory.
type Runner struct {
	runner executor.Runner
	dir    string
	logger *slog.Logger
}

// NewRunner returns a hook Runner for the workspace in dir.
func NewRunner(runner executor.Runner, dir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{runner: runner, dir: dir, logger: logger}
}

// Run executes the script for hook name. An empty script is a no-op.
func (r *Runner) Run(ctx context.Context, name, script string) error {
	if script == "" {
		return nil
	}

	full := filepath.Join(r.dir, script)
	r.logger.Info(fmt.Sprintf("Running '%s' lifecycle hook: %s", name, full))

	_, err := r.runner.Run(ctx, "node", []string{"-e", loader, full},
		executor.WithWorkingDir(r.dir), executor.CaptureAll())
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeExecutionFailed,
			fmt.Sprintf("The lifecycle hook '%s' was not found or was not exported correctly.", name),
			map[string]any{"hook": name, "script": full})
	}

	r.logger.Info(fmt.Sprintf("Lifecycle hook '%s' successfully executed.", name))
	return nil
}
