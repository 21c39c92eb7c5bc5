package git

import (
	"context"
	"errors"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CurrentBranch returns the name of the currently checked out branch.
// It returns an error if HEAD is in a detached state.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "failed to get HEAD reference")
	}

	if !head.Name().IsBranch() {
		return "", WrapError(ErrResolveFailed, "HEAD is detached")
	}

	return head.Name().Short(), nil
}

// CreateBranch creates a local branch at the current HEAD without checking it out.
func (r *Repo) CreateBranch(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	head, err := r.repo.Head()
	if err != nil {
		return WrapError(err, "failed to get HEAD reference")
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return WrapError(err, "failed to create branch reference")
	}
	return nil
}

// CheckoutBranch switches the worktree to name. A missing local branch is
// created from the remote-tracking branch of the same name on origin. When
// neither exists the returned error wraps ErrBranchMissing.
func (r *Repo) CheckoutBranch(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	local := plumbing.NewBranchReferenceName(name)
	opts := &git.CheckoutOptions{Branch: local}

	if _, err := r.repo.Reference(local, true); err != nil {
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return WrapErrorf(err, "failed to look up branch %q", name)
		}

		remote, remoteErr := r.repo.Reference(plumbing.NewRemoteReferenceName(DefaultRemoteName, name), true)
		if remoteErr != nil {
			return WrapErrorf(ErrBranchMissing, "branch %q", name)
		}
		opts.Create = true
		opts.Hash = remote.Hash()
	}

	if err := r.worktree.Checkout(opts); err != nil {
		return WrapErrorf(err, "failed to checkout branch %q", name)
	}
	return nil
}

// HasBranch reports whether name exists locally or as a remote-tracking branch on origin.
func (r *Repo) HasBranch(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	for _, ref := range []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(name),
		plumbing.NewRemoteReferenceName(DefaultRemoteName, name),
	} {
		_, err := r.repo.Reference(ref, true)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, WrapErrorf(err, "failed to look up %s", ref)
		}
	}
	return false, nil
}

func isMissingReference(err error) bool {
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return true
	}
	var noMatch git.NoMatchingRefSpecError
	if errors.As(err, &noMatch) {
		return true
	}
	return strings.Contains(err.Error(), "couldn't find remote ref")
}
