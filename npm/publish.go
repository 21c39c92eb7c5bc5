package npm

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/executor"
	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
	"github.com/blackbaud/skyux-sdk-actions/notify"
	"github.com/blackbaud/skyux-sdk-actions/versions"
)

// Registry is the registry the auth token is written for.
const Registry = "//registry.npmjs.org/"

// trustedPublishingNode is the first Node.js release whose npm supports
// publishing without a token.
const trustedPublishingNode = "24.0.0"

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	// Dir is the working directory on disk; FS is rooted there.
	Dir string
	FS  fs.Filesystem

	// Repository is owner/name of the library repository.
	Repository string

	// Tag is the git tag that triggered the release.
	Tag string

	// Token is the npm auth token. Empty selects trusted publishing.
	Token  string
	DryRun bool
}

// Publisher publishes a built library.
type Publisher struct {
	cfg      PublisherConfig
	runner   executor.Runner
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewPublisher returns a Publisher.
func NewPublisher(cfg PublisherConfig, runner executor.Runner, notifier notify.Notifier, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{cfg: cfg, runner: runner, notifier: notifier, logger: logger}
}

// DistTag returns next for prerelease tags and latest otherwise.
func DistTag(gitTag string) domain.DistTag {
	if strings.Contains(gitTag, "-") {
		return domain.DistTagNext
	}
	return domain.DistTagLatest
}

// ChangelogURL links to the changelog of repository at version.
func ChangelogURL(repository, version string) string {
	return fmt.Sprintf("https://github.com/%s/blob/%s/CHANGELOG.md", repository, version)
}

// Publish publishes the package in distDir, a path relative to Dir.
func (p *Publisher) Publish(ctx context.Context, distDir string) (domain.PackageMetadata, error) {
	store := manifest.NewStore(p.cfg.FS)
	doc, err := store.ReadJSON(path.Join(distDir, manifest.PackageJSON))
	if err != nil {
		return domain.PackageMetadata{}, errors.Wrap(err, errors.CodePublishFailed, "failed to read the built package.json")
	}

	meta := domain.PackageMetadata{
		Name:    doc.String("name"),
		Version: doc.String("version"),
	}
	meta.ChangelogURL = ChangelogURL(p.cfg.Repository, meta.Version)

	if p.cfg.Tag != meta.Version {
		return domain.PackageMetadata{}, errors.Newf(errors.CodeVersionMismatch,
			"Aborted publishing to NPM because the version listed in package.json (%s) does not match the git tag (%s)!",
			meta.Version, p.cfg.Tag)
	}

	p.logger.Info(fmt.Sprintf("Preparing to publish %s@%s to NPM from %s...", meta.Name, meta.Version, distDir))

	npmrc := path.Join(distDir, ".npmrc")
	npmCommand := "npm"
	if p.cfg.Token != "" {
		if err := p.cfg.FS.WriteFile(npmrc, []byte(Registry+":_authToken="+p.cfg.Token), 0o600); err != nil {
			return domain.PackageMetadata{}, errors.Wrap(err, errors.CodePublishFailed, "failed to write .npmrc")
		}
		defer func() {
			if err := p.cfg.FS.Remove(npmrc); err != nil {
				p.logger.Warn("failed to remove .npmrc", "error", err)
			}
		}()
	} else {
		npmCommand, err = p.trustedPublishingNPM(ctx)
		if err != nil {
			return domain.PackageMetadata{}, err
		}
	}

	args := []string{"publish", "--access", "public", "--tag", string(DistTag(p.cfg.Tag))}
	if p.cfg.DryRun {
		args = append(args, "--dry-run")
	}

	ref := fmt.Sprintf("`%s@%s`", meta.Name, meta.Version)
	_, err = p.runner.Run(ctx, npmCommand, args,
		executor.WithWorkingDir(filepath.Join(p.cfg.Dir, filepath.FromSlash(distDir))), executor.CaptureAll())
	if err != nil {
		msg := ref + " failed to publish to NPM."
		p.notify(ctx, msg)
		return domain.PackageMetadata{}, errors.Wrap(err, errors.CodePublishFailed, msg)
	}

	msg := fmt.Sprintf("Successfully published %s to NPM.", ref)
	p.logger.Info(msg)
	p.notify(ctx, msg+"\n"+meta.ChangelogURL)
	return meta, nil
}

// trustedPublishingNPM returns an npm binary recent enough for trusted
// publishing, preferring the one on PATH.
func (p *Publisher) trustedPublishingNPM(ctx context.Context) (string, error) {
	res, err := p.runner.Run(ctx, "node", []string{"--version"}, executor.SilentMode())
	if err != nil {
		return "", errors.Wrap(err, errors.CodePublishFailed, "failed to read the Node.js version")
	}
	current := strings.TrimPrefix(strings.TrimSpace(res.Output()), "v")
	if cmp, err := versions.Compare(current, trustedPublishingNode); err == nil && cmp >= 0 {
		return "npm", nil
	}

	const msg = "Aborted publishing to NPM with trusted publishing because NPM from Node.js 24 could not be found!"
	res, err = p.runner.Run(ctx, "sh", []string{"-c", "ls $NVM_DIR/versions/node/v24.*/bin/npm"}, executor.SilentMode())
	if err != nil {
		return "", errors.Wrap(err, errors.CodePublishFailed, msg)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(res.Output()), "\n")
	if first == "" {
		return "", errors.New(errors.CodePublishFailed, msg)
	}
	return first, nil
}

func (p *Publisher) notify(ctx context.Context, msg string) {
	if p.cfg.DryRun || p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, msg); err != nil {
		p.logger.Warn("failed to notify Slack", "error", err)
	}
}
