package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blackbaud/skyux-sdk-actions/actions"
	"github.com/blackbaud/skyux-sdk-actions/config"
	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/executor"
	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/hooks"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
	"github.com/blackbaud/skyux-sdk-actions/release"
)

// CISkip in the last commit message of a push skips the run.
const CISkip = "[ci skip]"

// Installer installs workspace packages.
type Installer interface {
	Install(ctx context.Context) error
}

// HookRunner runs a lifecycle hook script.
type HookRunner interface {
	Run(ctx context.Context, name, script string) error
}

// Publisher publishes a built library.
type Publisher interface {
	Publish(ctx context.Context, distDir string) (domain.PackageMetadata, error)
}

// Coordinator tags the umbrella repository for a published library.
type Coordinator interface {
	Coordinate(ctx context.Context, lib domain.PackageMetadata) (*domain.ReleaseOutcome, error)
}

// Screenshots commits visual test screenshots.
type Screenshots interface {
	CheckBaseline(ctx context.Context, repository, buildID string) error
	CheckFailures(ctx context.Context, buildID string) error
}

// DependencyValidator checks a library's dependencies against the workspace.
type DependencyValidator interface {
	Validate(project string) error
}

// HeadReader reads the last commit message of the local checkout.
type HeadReader interface {
	HeadMessage(ctx context.Context) (string, error)
}

// Exporter exports environment variables to later steps.
type Exporter interface {
	ExportVariable(name, value string) error
}

// Deps are the collaborators of a Pipeline. FS is rooted at the working
// directory and every command runs there.
type Deps struct {
	Config  *config.Config
	Context actions.Context
	Runner  executor.Runner
	FS      fs.Filesystem
	Dir     string

	Exporter    Exporter
	Head        HeadReader
	Installer   Installer
	Hooks       HookRunner
	Publisher   Publisher
	Coordinator Coordinator
	Screenshots Screenshots
	Validator   DependencyValidator
}

// Pipeline runs the CI job.
type Pipeline struct {
	Deps
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces the clock used for the build identifier.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New returns a Pipeline.
func New(deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{
		Deps:   deps,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the job. A nil error means the job succeeded or was skipped.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.Context.IsPush() {
		skip, err := p.skipRequested(ctx)
		if err != nil {
			return err
		}
		if skip {
			p.logger.Info(fmt.Sprintf("Found %q in last commit message. Aborting build and test run.", CISkip))
			return nil
		}
	}

	if err := p.exportBrowserStack(); err != nil {
		return err
	}

	buildID := BuildID(p.Context.Repository, p.Context.EventName, p.Context.RunID, p.now())
	p.logger.Debug("starting run", "build_id", buildID, "event", p.Context.EventName)

	ws, err := p.readAngularWorkspace()
	if err != nil {
		return err
	}
	project := ws.String("defaultProject")
	if p.Config.Project != "" {
		project = p.Config.Project
	}
	if project == "" {
		return errors.New(errors.CodeInvalidConfig,
			"Could not determine the library project. Set \"defaultProject\" in 'angular.json' or the 'project' input.")
	}

	if p.Config.ValidateDependencies {
		if err := p.Validator.Validate(project); err != nil {
			return err
		}
	}

	if err := p.Installer.Install(ctx); err != nil {
		return err
	}

	if err := p.Hooks.Run(ctx, hooks.BeforeScript, p.Config.Hooks.BeforeScript); err != nil {
		return err
	}

	if err := p.buildLibrary(ctx, project); err != nil {
		return err
	}

	// Tags are released without running the tests again.
	if p.Context.IsTag() {
		return p.release(ctx, project)
	}

	if err := p.coverage(ctx, buildID, project); err != nil {
		return err
	}
	return p.visual(ctx, buildID, project+"-showcase", ws)
}

func (p *Pipeline) skipRequested(ctx context.Context) (bool, error) {
	msg, err := p.Head.HeadMessage(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeExecutionFailed, "failed to read the last commit message")
	}
	return strings.Contains(msg, CISkip), nil
}

// exportBrowserStack exposes the credentials to the BrowserStack launchers.
func (p *Pipeline) exportBrowserStack() error {
	vars := []struct{ name, value string }{
		{"BROWSER_STACK_ACCESS_KEY", p.Config.BrowserStack.AccessKey},
		{"BROWSER_STACK_USERNAME", p.Config.BrowserStack.Username},
		{"BROWSER_STACK_PROJECT", p.browserStackProject()},
	}
	for _, v := range vars {
		if err := p.Exporter.ExportVariable(v.name, v.value); err != nil {
			return errors.Wrap(err, errors.CodeExecutionFailed, "failed to export "+v.name)
		}
	}
	return nil
}

func (p *Pipeline) browserStackProject() string {
	if p.Config.BrowserStack.Project != "" {
		return p.Config.BrowserStack.Project
	}
	return p.Context.Repository
}

func (p *Pipeline) readAngularWorkspace() (*manifest.Document, error) {
	doc, err := manifest.NewStore(p.FS).ReadJSON("angular.json")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to read 'angular.json'")
	}
	return doc, nil
}

// release publishes the library and tags the umbrella repository. Aborted
// tagging is reported as a warning.
func (p *Pipeline) release(ctx context.Context, project string) error {
	meta, err := p.Publisher.Publish(ctx, "dist/"+project)
	if err != nil {
		return err
	}

	outcome, err := p.Coordinator.Coordinate(ctx, meta)
	switch {
	case release.IsRecoverable(err):
		var pe *errors.PlatformError
		if errors.As(err, &pe) {
			p.logger.Warn(pe.Message)
		} else {
			p.logger.Warn(err.Error())
		}
		return nil
	case err != nil:
		return err
	}

	p.logger.Debug("umbrella release finished",
		"status", outcome.Status.String(), "version", outcome.Version, "branch", outcome.Branch)
	return nil
}
