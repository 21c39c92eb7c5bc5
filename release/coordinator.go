package release

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blackbaud/skyux-sdk-actions/changelog"
	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/git"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
	"github.com/blackbaud/skyux-sdk-actions/versions"
)

const (
	// DefaultRepository is the umbrella repository.
	DefaultRepository = "blackbaud/skyux-packages"

	// DefaultBranch is the umbrella branch releases are tagged on.
	DefaultBranch = "master"
)

// MigrationSchematics are the schematics whose version follows the umbrella version.
var MigrationSchematics = []string{"noop", "update-peer-dependencies"}

// Config configures a Coordinator.
type Config struct {
	// Repository is the umbrella repository as owner/name.
	Repository string

	// URL is the clone URL. Defaults to the GitHub HTTPS URL of Repository.
	URL string

	// Branch is the default branch. Defaults to DefaultBranch.
	Branch string

	// DryRun computes the new version without committing, tagging or pushing.
	DryRun bool

	// Bump is the increment for stable umbrella versions: patch or minor.
	Bump domain.BumpKind
}

func (c Config) withDefaults() Config {
	if c.Repository == "" {
		c.Repository = DefaultRepository
	}
	if c.URL == "" {
		c.URL = fmt.Sprintf("https://github.com/%s.git", c.Repository)
	}
	if c.Branch == "" {
		c.Branch = DefaultBranch
	}
	if c.Bump == "" {
		c.Bump = domain.BumpPatch
	}
	return c
}

// Workspace is a disposable checkout of the umbrella repository.
type Workspace interface {
	// FS returns the worktree of the currently checked out branch. Callers
	// must fetch it again after CheckoutBranch.
	FS() fs.Filesystem
	CheckoutBranch(ctx context.Context, name string) error
	CommitAll(ctx context.Context, msg string) (string, error)
	PushBranch(ctx context.Context) error
	Tag(ctx context.Context, name string) error
	PushTag(ctx context.Context, name string) error
	Close() error
}

// Cloner produces workspaces.
type Cloner interface {
	Clone(ctx context.Context, url, branch string) (Workspace, error)
}

// Coordinator tags the umbrella repository for published libraries.
type Coordinator struct {
	cfg    Config
	cloner Cloner
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets a custom logger for the Coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClock overrides the changelog date source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// NewCoordinator validates cfg and returns a Coordinator.
func NewCoordinator(cfg Config, cloner Cloner, opts ...Option) (*Coordinator, error) {
	cfg = cfg.withDefaults()
	if cloner == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "cloner is required")
	}
	if cfg.Bump != domain.BumpPatch && cfg.Bump != domain.BumpMinor {
		return nil, errors.Newf(errors.CodeInvalidConfig, "unsupported umbrella bump %q: want patch or minor", cfg.Bump)
	}

	c := &Coordinator{cfg: cfg, cloner: cloner, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Coordinator) Config() Config {
	return c.cfg
}

// Coordinate advances the umbrella repository for lib. The clone is always
// discarded before Coordinate returns.
func (c *Coordinator) Coordinate(ctx context.Context, lib domain.PackageMetadata) (*domain.ReleaseOutcome, error) {
	if lib.Name == "" {
		return nil, errors.New(errors.CodeInvalidInput, "library name is required")
	}
	if !versions.Valid(lib.Version) {
		return nil, errors.Newf(errors.CodeInvalidInput, "library version %q is not a valid semantic version", lib.Version)
	}

	c.logger.Debug("coordinating umbrella release", "library", lib.Name, "version", lib.Version, "branch", c.cfg.Branch)
	c.logger.Info(fmt.Sprintf("Tagging '%s' for '%s@%s'.", c.cfg.Repository, lib.Name, lib.Version))

	ws, err := c.cloner.Clone(ctx, c.cfg.URL, c.cfg.Branch)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeExecutionFailed,
			fmt.Sprintf("failed to clone '%s'", c.cfg.Repository),
			map[string]any{"branch": c.cfg.Branch})
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			c.logger.Warn("failed to remove umbrella clone", "error", cerr)
		}
	}()

	store := manifest.NewStore(ws.FS())
	doc, umbrella, err := readUmbrella(store)
	if err != nil {
		return nil, err
	}

	decision, err := Decide(c.cfg.Repository, lib, umbrella, c.cfg.Branch)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to compare versions")
	}
	if !decision.Eligible {
		return nil, &errors.PlatformError{
			Code:    errors.CodeReleaseIneligible,
			Message: decision.Reason,
			Context: map[string]any{"library": lib.Name, "range": umbrella.Range(lib.Name)},
		}
	}

	if decision.TargetBranch != c.cfg.Branch {
		c.logger.Debug("checking out major version branch", "branch", decision.TargetBranch, "reason", decision.Reason)
		if err := ws.CheckoutBranch(ctx, decision.TargetBranch); err != nil {
			if errors.Is(err, git.ErrBranchMissing) {
				return nil, &errors.PlatformError{
					Code:    errors.CodeBranchNotFound,
					Message: branchMissingMessage(c.cfg.Repository, decision.TargetBranch),
					Context: map[string]any{"branch": decision.TargetBranch},
				}
			}
			return nil, errors.Wrap(err, errors.CodeExecutionFailed,
				fmt.Sprintf("failed to check out branch '%s'", decision.TargetBranch))
		}
		store = manifest.NewStore(ws.FS())
		if doc, umbrella, err = readUmbrella(store); err != nil {
			return nil, err
		}
	}

	next, err := versions.Bump(umbrella.Version, NextKind(umbrella.Version, c.cfg.Bump))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "failed to increment umbrella version")
	}

	outcome := &domain.ReleaseOutcome{
		Branch:          decision.TargetBranch,
		PreviousVersion: umbrella.Version,
		Version:         next,
	}

	if err := c.writeRelease(store, doc, lib, next); err != nil {
		return nil, err
	}

	if c.cfg.DryRun {
		c.logger.Warn(dryRunMessage(c.cfg.Repository, next))
		outcome.Status = domain.ReleaseStatusDryRun
		return outcome, nil
	}

	if err := c.publish(ctx, ws, next); err != nil {
		return nil, err
	}

	c.logger.Info(fmt.Sprintf("Tagged '%s' with (%s) on branch '%s'.", c.cfg.Repository, next, outcome.Branch))
	outcome.Status = domain.ReleaseStatusTagged
	return outcome, nil
}

// writeRelease updates package.json, the migration collection and the changelog.
func (c *Coordinator) writeRelease(store *manifest.Store, doc *manifest.Document, lib domain.PackageMetadata, version string) error {
	if err := doc.Set(version, "version"); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to set umbrella version")
	}
	if err := store.WriteJSON(manifest.PackageJSON, doc); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write package.json")
	}

	ok, err := store.Exists(manifest.MigrationCollection)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to stat migration collection")
	}
	if ok {
		collection, err := store.ReadJSON(manifest.MigrationCollection)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to read migration collection")
		}
		if _, err := manifest.SetSchematicVersions(collection, version, MigrationSchematics...); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to update migration collection")
		}
		if err := store.WriteJSON(manifest.MigrationCollection, collection); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to write migration collection")
		}
	}

	existing, err := store.ReadText(manifest.Changelog)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to read changelog")
	}
	if err := store.WriteText(manifest.Changelog, changelog.Prepend(existing, version, lib, c.now())); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to write changelog")
	}
	return nil
}

// publish commits, pushes the branch, then tags and pushes the tag. The
// order is fixed: the tag must never reach origin before its commit.
func (c *Coordinator) publish(ctx context.Context, ws Workspace, version string) error {
	if _, err := ws.CommitAll(ctx, CommitMessage(version)); err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, "failed to commit umbrella release")
	}
	if err := ws.PushBranch(ctx); err != nil {
		return errors.Wrap(err, errors.CodeNetwork, "failed to push umbrella branch")
	}
	if err := ws.Tag(ctx, version); err != nil {
		return errors.Wrap(err, errors.CodeExecutionFailed, fmt.Sprintf("failed to tag (%s)", version))
	}
	if err := ws.PushTag(ctx, version); err != nil {
		return errors.Wrap(err, errors.CodeNetwork, fmt.Sprintf("failed to push tag (%s)", version))
	}
	return nil
}

func readUmbrella(store *manifest.Store) (*manifest.Document, domain.UmbrellaManifest, error) {
	doc, err := store.ReadJSON(manifest.PackageJSON)
	if err != nil {
		return nil, domain.UmbrellaManifest{}, errors.Wrap(err, errors.CodeInvalidInput, "failed to read umbrella package.json")
	}
	umbrella, err := manifest.Umbrella(doc)
	if err != nil {
		return nil, domain.UmbrellaManifest{}, errors.Wrap(err, errors.CodeInvalidInput, "invalid umbrella package.json")
	}
	return doc, umbrella, nil
}

// IsRecoverable reports whether err is an expected abort that should be
// reported as a warning rather than failing the job.
func IsRecoverable(err error) bool {
	return errors.HasCode(err, errors.CodeReleaseIneligible) || errors.HasCode(err, errors.CodeBranchNotFound)
}
