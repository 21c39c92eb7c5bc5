// Package git is a task-oriented facade over go-git used to clone, branch,
// commit, tag and push repositories from CI without a git binary.
//
// All repository state lives in a filesystem from fs/billy, so the same code
// runs against an on-disk checkout or an in-memory repository in tests.
//
// # Basic Usage
//
//	fsys := billyfs.NewOSFS("/tmp/clone")
//	repo, err := git.Clone(ctx, "https://github.com/blackbaud/skyux-packages.git", "master", &git.Options{
//	    FS:   fsys,
//	    Auth: git.NewTokenAuth(token),
//	})
//
// # Branches
//
// CheckoutBranch switches to a local branch, creating it from the matching
// remote-tracking branch when needed. A branch that exists in neither place
// yields ErrBranchMissing:
//
//	if err := repo.CheckoutBranch(ctx, "5.x.x"); errors.Is(err, git.ErrBranchMissing) {
//	    // no historical branch for this major version
//	}
//
// # Committing, Tagging and Pushing
//
//	_ = repo.AddAll(ctx)
//	_, _ = repo.Commit(ctx, "Updated changelog/package.json for 5.2.1 release", sig, git.CommitOpts{})
//	_ = repo.CreateTag(ctx, "5.2.1", "HEAD")
//	_ = repo.PushBranch(ctx, "master")
//	_ = repo.PushTag(ctx, "5.2.1")
//
// # Errors
//
// Failures wrap the sentinel errors in errors.go and can be checked with errors.Is.
package git
