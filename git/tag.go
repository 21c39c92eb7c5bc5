package git

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CreateTag creates a lightweight tag named name pointing at target.
// target may be any revision go-git can resolve; empty means HEAD.
func (r *Repo) CreateTag(ctx context.Context, name, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}
	if target == "" {
		target = "HEAD"
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(target))
	if err != nil {
		return WrapErrorf(ErrResolveFailed, "failed to resolve %q", target)
	}

	if _, err := r.repo.CreateTag(name, *hash, nil); err != nil {
		if errors.Is(err, git.ErrTagExists) {
			return WrapErrorf(ErrTagExists, "tag %q", name)
		}
		return WrapErrorf(err, "failed to create tag %q", name)
	}
	return nil
}
