// Package screenshots commits visual test screenshots to git.
//
// New baseline screenshots produced on a push are committed back to the
// repository under test. Failure screenshots produced on a pull request are
// pushed to a branch of the visual test results repository so reviewers can
// browse them.
package screenshots

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/fs"
)

const (
	// BaselineDir holds baseline screenshots, relative to the working directory.
	BaselineDir = "screenshots-baseline"

	// FailureDir holds failure diffs, relative to the working directory.
	FailureDir = "screenshots-diff"

	// DefaultResultsRepository receives failure screenshots.
	DefaultResultsRepository = "blackbaud/skyux-visual-test-results"

	// DefaultBaselinesBranch receives baseline screenshots.
	DefaultBaselinesBranch = "master"

	// DefaultBaseURL is the git host the repositories live on.
	DefaultBaseURL = "https://github.com"
)

// ChangeDetector reports changes in the local checkout.
type ChangeDetector interface {
	HasChanges(ctx context.Context, dir string) (bool, error)
}

// Workspace is a disposable clone screenshots are committed in.
type Workspace interface {
	FS() fs.Filesystem
	CreateBranch(ctx context.Context, name string) error
	CommitAll(ctx context.Context, msg string) (string, error)
	PushBranch(ctx context.Context) error
	Close() error
}

// Cloner produces workspaces.
type Cloner interface {
	Clone(ctx context.Context, url, branch string) (Workspace, error)
}

// Config configures a Committer.
type Config struct {
	// BaselinesBranch receives baseline screenshots. Defaults to DefaultBaselinesBranch.
	BaselinesBranch string

	// ResultsRepository receives failure screenshots. Defaults to DefaultResultsRepository.
	ResultsRepository string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// CheckoutDir is the working directory relative to the root of the
	// local checkout, used to scope change detection.
	CheckoutDir string
}

func (c Config) withDefaults() Config {
	if c.BaselinesBranch == "" {
		c.BaselinesBranch = DefaultBaselinesBranch
	}
	if c.ResultsRepository == "" {
		c.ResultsRepository = DefaultResultsRepository
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	return c
}

// Committer commits screenshots found in the working directory.
type Committer struct {
	cfg     Config
	local   fs.Filesystem
	changes ChangeDetector
	cloner  Cloner
	logger  *slog.Logger
}

// Option configures a Committer.
type Option func(*Committer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Committer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCommitter returns a Committer. local must be rooted at the working
// directory.
func NewCommitter(cfg Config, local fs.Filesystem, changes ChangeDetector, cloner Cloner, opts ...Option) *Committer {
	c := &Committer{
		cfg:     cfg.withDefaults(),
		local:   local,
		changes: changes,
		cloner:  cloner,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckBaseline commits new baseline screenshots to the baselines branch
// of repository.
func (c *Committer) CheckBaseline(ctx context.Context, repository, buildID string) error {
	changed, err := c.detect(ctx, BaselineDir)
	if err != nil || !changed {
		return err
	}

	ws, err := c.cloner.Clone(ctx, c.remote(repository), c.cfg.BaselinesBranch)
	if err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, "failed to clone the baseline repository")
	}
	defer c.close(ws)

	c.logger.Info(fmt.Sprintf("Preparing to commit baseline screenshots to the '%s' branch.", c.cfg.BaselinesBranch))
	if err := c.commit(ctx, ws, BaselineDir, fmt.Sprintf("Build #%s: Added new baseline screenshots. [ci skip]", buildID)); err != nil {
		return err
	}

	c.logger.Info("New baseline images saved.")
	return nil
}

// CheckFailures pushes failure screenshots to a branch named buildID of
// the results repository. When screenshots were pushed it returns an error
// naming where they can be viewed.
func (c *Committer) CheckFailures(ctx context.Context, buildID string) error {
	changed, err := c.detect(ctx, FailureDir)
	if err != nil || !changed {
		return err
	}

	ws, err := c.cloner.Clone(ctx, c.remote(c.cfg.ResultsRepository), DefaultBaselinesBranch)
	if err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, "failed to clone the visual test results repository")
	}
	defer c.close(ws)

	if err := ws.CreateBranch(ctx, buildID); err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, "failed to create the failure screenshots branch")
	}

	c.logger.Info(fmt.Sprintf("Preparing to commit failure screenshots to the '%s' branch.", buildID))
	if err := c.commit(ctx, ws, FailureDir, fmt.Sprintf("Build #%s: Added new failure screenshots. [ci skip]", buildID)); err != nil {
		return err
	}

	return errors.Newf(errors.CodeTestFailed,
		"SKY UX visual test failure!\nScreenshots may be viewed at: %s/%s/tree/%s",
		c.cfg.BaseURL, c.cfg.ResultsRepository, buildID)
}

func (c *Committer) detect(ctx context.Context, dir string) (bool, error) {
	changed, err := c.changes.HasChanges(ctx, path.Join(c.cfg.CheckoutDir, dir))
	if err != nil {
		return false, errors.Wrap(err, errors.CodeExecutionFailed, "failed to check for new screenshots")
	}
	if !changed {
		c.logger.Info("No new screenshots detected. Done.")
		return false, nil
	}
	c.logger.Info("New screenshots detected.")
	return true, nil
}

func (c *Committer) commit(ctx context.Context, ws Workspace, dir, msg string) error {
	if _, err := fs.CopyDir(c.local, dir, ws.FS(), dir); err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, "failed to copy screenshots")
	}
	if _, err := ws.CommitAll(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, "failed to commit screenshots")
	}
	if err := ws.PushBranch(ctx); err != nil {
		return errors.Wrap(err, errors.CodeNetwork, "failed to push screenshots")
	}
	return nil
}

func (c *Committer) remote(repository string) string {
	return fmt.Sprintf("%s/%s.git", c.cfg.BaseURL, repository)
}

func (c *Committer) close(ws Workspace) {
	if err := ws.Close(); err != nil {
		c.logger.Warn("failed to remove screenshots clone", "error", err)
	}
}
