// Package workspace manages disposable clones of a remote repository.
//
// A Cloner checks a branch out into a fresh directory below a root and
// returns a Workspace that commits as the bot identity. Callers must Close
// the Workspace; Close removes the directory whether or not the work
// succeeded.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/fs/billy"
	"github.com/blackbaud/skyux-sdk-actions/git"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
)

const (
	// DefaultPrefix names the temporary clone directories.
	DefaultPrefix = ".skyuxpackagestemp"

	// DefaultTimeout bounds each network operation.
	DefaultTimeout = 5 * time.Minute
)

// BotIdentity is the author and committer of every workspace commit.
var BotIdentity = Identity{
	Name:  "Blackbaud Sky Build User",
	Email: "sky-build-user@blackbaud.com",
}

// Identity names a git author.
type Identity struct {
	Name  string
	Email string
}

// Cloner creates workspaces.
type Cloner struct {
	root     string
	prefix   string
	token    string
	identity Identity
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Cloner.
type Option func(*Cloner)

// WithToken authenticates clone and push against github.com.
func WithToken(token string) Option {
	return func(c *Cloner) {
		c.token = token
	}
}

// WithIdentity overrides BotIdentity.
func WithIdentity(id Identity) Option {
	return func(c *Cloner) {
		c.identity = id
	}
}

// WithTimeout bounds clone and push. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Cloner) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(c *Cloner) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithLogger sets a custom logger for the Cloner and its workspaces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cloner) {
		c.logger = logger
	}
}

// WithClock overrides the commit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Cloner) {
		c.now = now
	}
}

// NewCloner returns a Cloner that places clones below root. An empty root
// means the current directory.
func NewCloner(root string, opts ...Option) *Cloner {
	c := &Cloner{
		root:     root,
		prefix:   DefaultPrefix,
		identity: BotIdentity,
		timeout:  DefaultTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.root == "" {
		c.root = "."
	}
	return c
}

// Clone clones url at branch into a new directory. An empty branch clones
// the remote default branch. A branch that does not exist on the remote
// yields an error wrapping git.ErrBranchMissing, and no directory is left
// behind.
func (c *Cloner) Clone(ctx context.Context, url, branch string) (*Workspace, error) {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace root %q: %w", c.root, err)
	}
	dir, err := os.MkdirTemp(c.root, c.prefix+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}

	worktree := billy.NewOSFS(dir)
	opts := &git.Options{FS: worktree}
	if c.token != "" {
		opts.Auth = git.NewTokenAuth(c.token)
	}

	cloneCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("cloning repository", "branch", branch, "dir", dir)
	repo, err := git.Clone(cloneCtx, url, branch, opts)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			c.logger.Warn("failed to remove workspace directory", "dir", dir, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to clone %s: %w", redact(url), err)
	}

	current, err := repo.CurrentBranch(ctx)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			c.logger.Warn("failed to remove workspace directory", "dir", dir, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to resolve cloned branch: %w", err)
	}

	return &Workspace{
		dir:      dir,
		fs:       worktree,
		repo:     repo,
		branch:   current,
		identity: c.identity,
		timeout:  c.timeout,
		logger:   c.logger,
		now:      c.now,
	}, nil
}

// Workspace is a checked out clone. It is owned by a single caller and is
// not safe for concurrent use.
type Workspace struct {
	dir      string
	fs       *billy.FS
	repo     *git.Repo
	branch   string
	identity Identity
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	closeOnce sync.Once
	closeErr  error
}

// Dir returns the clone directory on disk.
func (w *Workspace) Dir() string {
	return w.dir
}

// FS returns the worktree filesystem rooted at Dir.
func (w *Workspace) FS() fs.Filesystem {
	return w.fs
}

// Store returns a manifest store over the worktree.
func (w *Workspace) Store() *manifest.Store {
	return manifest.NewStore(w.fs)
}

// Branch returns the checked out branch.
func (w *Workspace) Branch() string {
	return w.branch
}

// CheckoutBranch switches to name, creating it from origin when only the
// remote branch exists. The worktree returned by FS follows the checkout.
func (w *Workspace) CheckoutBranch(ctx context.Context, name string) error {
	ok, err := w.repo.HasBranch(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		w.logger.Debug("branch not found", "branch", name)
		return git.WrapErrorf(git.ErrBranchMissing, "branch %q", name)
	}
	if err := w.repo.CheckoutBranch(ctx, name); err != nil {
		return err
	}
	w.branch = name
	return nil
}

// CommitAll stages every change and commits it as the workspace identity.
func (w *Workspace) CommitAll(ctx context.Context, msg string) (string, error) {
	if err := w.repo.AddAll(ctx); err != nil {
		return "", err
	}
	return w.repo.Commit(ctx, msg, git.Signature{
		Name:  w.identity.Name,
		Email: w.identity.Email,
		When:  w.now(),
	}, git.CommitOpts{})
}

// HasChanges reports whether anything below dir differs from HEAD.
func (w *Workspace) HasChanges(ctx context.Context, dir string) (bool, error) {
	return w.repo.HasChanges(ctx, dir)
}

// PushBranch pushes the checked out branch to origin.
func (w *Workspace) PushBranch(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return w.repo.PushBranch(ctx, w.branch)
}

// CreateBranch creates name at HEAD and checks it out.
func (w *Workspace) CreateBranch(ctx context.Context, name string) error {
	if err := w.repo.CreateBranch(ctx, name); err != nil {
		return err
	}
	return w.CheckoutBranch(ctx, name)
}

// Tag creates a lightweight tag at HEAD.
func (w *Workspace) Tag(ctx context.Context, name string) error {
	return w.repo.CreateTag(ctx, name, "")
}

// PushTag pushes a tag to origin.
func (w *Workspace) PushTag(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return w.repo.PushTag(ctx, name)
}

// Close removes the clone directory. It is safe to call more than once.
func (w *Workspace) Close() error {
	w.closeOnce.Do(func() {
		w.logger.Debug("removing workspace", "dir", w.dir)
		if err := os.RemoveAll(w.dir); err != nil {
			w.closeErr = fmt.Errorf("failed to remove workspace %q: %w", w.dir, err)
		}
	})
	return w.closeErr
}
