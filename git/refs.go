package git

import (
	"context"
	"strings"
	"time"
)

// now is swapped in tests.
var now = time.Now

// HeadMessage returns the trimmed message of the commit HEAD points to.
func (r *Repo) HeadMessage(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(ErrResolveFailed, "failed to resolve HEAD")
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", WrapError(err, "failed to read HEAD commit")
	}
	return strings.TrimSpace(commit.Message), nil
}

// AddRemote registers a remote named name with url.
func (r *Repo) AddRemote(ctx context.Context, name, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || url == "" {
		return WrapError(ErrInvalidRef, "remote name and url are required")
	}
	if _, err := r.repo.CreateRemote(remoteConfig(name, url)); err != nil {
		return WrapErrorf(err, "failed to create remote %q", name)
	}
	return nil
}
