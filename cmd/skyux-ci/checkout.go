package main

import (
	"context"
	"log/slog"

	"github.com/blackbaud/skyux-sdk-actions/fs/billy"
	"github.com/blackbaud/skyux-sdk-actions/git"
)

// checkout is the repository the job runs in. A failed open is reported on
// first use, so jobs that never need git also run outside a checkout.
type checkout struct {
	repo *git.Repo
	err  error
}

func openCheckout(ctx context.Context, logger *slog.Logger) *checkout {
	repo, err := git.Open(ctx, &git.Options{FS: billy.NewOSFS(".")})
	if err != nil {
		logger.Debug("current directory is not a git checkout", "error", err)
	}
	return &checkout{repo: repo, err: err}
}

func (c *checkout) HeadMessage(ctx context.Context) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.repo.HeadMessage(ctx)
}

func (c *checkout) HasChanges(ctx context.Context, dir string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return c.repo.HasChanges(ctx, dir)
}
