package git

import (
	"context"
	"fmt"
	"time"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/git/internal/fsbridge"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory name.
	DefaultWorkdir = "."

	// DefaultRemoteName is the default remote name used for operations.
	DefaultRemoteName = "origin"
)

// Options configures repository discovery/creation.
type Options struct {
	// FS is the REQUIRED filesystem root. It must be a *billy.FS from fs/billy.
	FS fs.Filesystem

	// Workdir is the path within FS for the worktree root.
	// Defaults to ".".
	Workdir string

	// StorerCacheSize sets the LRU objects cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth resolves credentials per remote URL. Nil means anonymous access.
	Auth AuthProvider

	// Depth limits clone history when > 0. All branches are still fetched.
	Depth int
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}
	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidRef, "StorerCacheSize cannot be negative")
	}
	if o.Depth < 0 {
		return WrapError(ErrInvalidRef, "Depth cannot be negative")
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}
	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}
}

// AuthProvider resolves authentication methods for git operations.
type AuthProvider interface {
	// Method returns the transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Signature identifies the author and committer of a commit.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// CommitOpts configures commit creation behavior.
type CommitOpts struct {
	// AllowEmpty allows creating commits with no changes.
	AllowEmpty bool
}

// Repo represents a git repository and provides high-level operations.
type Repo struct {
	repo     *git.Repository
	worktree *git.Worktree
	options  Options
}

// storage builds the object storage and worktree filesystem for opts.
func storage(opts *Options) (*filesystem.Storage, gobilly.Filesystem, error) {
	billyFS, err := fsbridge.ToBillyFilesystem(opts.FS)
	if err != nil {
		return nil, nil, fmt.Errorf("filesystem conversion failed: %w", err)
	}

	scopedFS, err := billyFS.Chroot(opts.Workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chroot to workdir %q: %w", opts.Workdir, err)
	}

	dotGitFS, err := scopedFS.Chroot(".git")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access .git directory: %w", err)
	}

	return fsbridge.NewStorage(dotGitFS, opts.StorerCacheSize), scopedFS, nil
}

func prepare(opts *Options) (*filesystem.Storage, gobilly.Filesystem, error) {
	if opts == nil {
		return nil, nil, WrapError(ErrInvalidRef, "options are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()
	return storage(opts)
}

func newRepo(repo *git.Repository, opts *Options) (*Repo, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}
	return &Repo{repo: repo, worktree: worktree, options: *opts}, nil
}

// Init creates a new non-bare repository.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, wt, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Init(st, wt)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}
	return newRepo(repo, opts)
}

// Open opens an existing non-bare repository.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, wt, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(st, wt)
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}
	return newRepo(repo, opts)
}

// Clone clones remoteURL and checks out branch. An empty branch checks out
// the remote HEAD. Every remote branch is fetched so historical branches can
// be checked out later without another network round trip.
//
// Context timeout/cancellation is honored during the clone operation.
func Clone(ctx context.Context, remoteURL, branch string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidRef, "remote URL cannot be empty")
	}

	st, wt, err := prepare(opts)
	if err != nil {
		return nil, err
	}

	cloneOpts := &git.CloneOptions{
		URL:        remoteURL,
		RemoteName: DefaultRemoteName,
		Depth:      opts.Depth,
		Tags:       git.AllTags,
	}
	if branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	if opts.Auth != nil {
		method, authErr := opts.Auth.Method(remoteURL)
		if authErr != nil {
			return nil, WrapError(authErr, "failed to get authentication method")
		}
		cloneOpts.Auth = method
	}

	repo, err := git.CloneContext(ctx, st, wt, cloneOpts)
	if err != nil {
		if branch != "" && isMissingReference(err) {
			return nil, WrapErrorf(ErrBranchMissing, "branch %q", branch)
		}
		return nil, WrapError(err, "failed to clone repository")
	}
	return newRepo(repo, opts)
}
