package git

import (
	"context"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// AddAll stages every modified, deleted and untracked file in the worktree.
func (r *Repo) AddAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.worktree == nil {
		return ErrBareRepository
	}

	if err := r.worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return WrapError(err, "failed to stage changes")
	}
	return nil
}

// Commit records the staged changes and returns the new commit hash.
// Without CommitOpts.AllowEmpty a clean index yields ErrEmptyCommit.
func (r *Repo) Commit(ctx context.Context, msg string, who Signature, opts CommitOpts) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.worktree == nil {
		return "", ErrBareRepository
	}
	if msg == "" {
		return "", WrapError(ErrInvalidRef, "commit message cannot be empty")
	}

	if !opts.AllowEmpty {
		status, err := r.worktree.Status()
		if err != nil {
			return "", WrapError(err, "failed to get worktree status")
		}
		if !hasStagedChanges(status) {
			return "", ErrEmptyCommit
		}
	}

	when := who.When
	if when.IsZero() {
		when = now()
	}
	sig := &object.Signature{Name: who.Name, Email: who.Email, When: when}

	hash, err := r.worktree.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: opts.AllowEmpty,
	})
	if err != nil {
		return "", WrapError(err, "failed to create commit")
	}
	return hash.String(), nil
}

// HasChanges reports whether anything below dir is modified, deleted or
// untracked. An empty dir checks the whole worktree.
func (r *Repo) HasChanges(ctx context.Context, dir string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.worktree == nil {
		return false, ErrBareRepository
	}

	status, err := r.worktree.Status()
	if err != nil {
		return false, WrapError(err, "failed to get worktree status")
	}

	prefix := strings.Trim(path.Clean("/"+dir), "/")
	for file, st := range status {
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		if prefix == "" || file == prefix || strings.HasPrefix(file, prefix+"/") {
			return true, nil
		}
	}
	return false, nil
}

func hasStagedChanges(status git.Status) bool {
	for _, st := range status {
		if st.Staging != git.Unmodified && st.Staging != git.Untracked {
			return true
		}
	}
	return false
}
