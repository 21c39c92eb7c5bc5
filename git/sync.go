package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// PushBranch pushes the local branch to the branch of the same name on origin.
func (r *Repo) PushBranch(ctx context.Context, branch string) error {
	if branch == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}
	ref := plumbing.NewBranchReferenceName(branch)
	return r.push(ctx, DefaultRemoteName, config.RefSpec(fmt.Sprintf("%s:%s", ref, ref)))
}

// PushTag pushes a single tag to origin.
func (r *Repo) PushTag(ctx context.Context, tag string) error {
	if tag == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}
	ref := plumbing.NewTagReferenceName(tag)
	return r.push(ctx, DefaultRemoteName, config.RefSpec(fmt.Sprintf("%s:%s", ref, ref)))
}

func (r *Repo) push(ctx context.Context, remote string, specs ...config.RefSpec) error {
	if remote == "" {
		remote = DefaultRemoteName
	}
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return WrapErrorf(ErrInvalidRef, "refspec %q", s)
		}
	}

	opts := &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   specs,
	}

	if r.options.Auth != nil {
		rc, err := r.repo.Remote(remote)
		if err != nil {
			return WrapError(err, "failed to get remote configuration")
		}
		method, err := r.options.Auth.Method(rc.Config().URLs[0])
		if err != nil {
			return WrapError(ErrAuthRequired, "failed to get authentication method")
		}
		opts.Auth = method
	}

	err := r.repo.PushContext(ctx, opts)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return ErrAlreadyUpToDate
	case errors.Is(err, git.ErrNonFastForwardUpdate), strings.Contains(err.Error(), "non-fast-forward"):
		return WrapError(ErrNotFastForward, "push rejected")
	default:
		return WrapError(err, "failed to push")
	}
}

func remoteConfig(name, url string) *config.RemoteConfig {
	return &config.RemoteConfig{Name: name, URLs: []string{url}}
}
