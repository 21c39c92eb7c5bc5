package release

import (
	"context"
	"fmt"

	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/fs/billy"
	"github.com/blackbaud/skyux-sdk-actions/git"
)

// fakeCloner hands out one in-memory workspace per Clone and records every
// git operation in order.
type fakeCloner struct {
	branches map[string]map[string]string
	cloneErr error
	pushErr  error
	calls    []string
	ws       *fakeWorkspace
}

func newFakeCloner(branches map[string]map[string]string) *fakeCloner {
	return &fakeCloner{branches: branches}
}

func (c *fakeCloner) Clone(_ context.Context, url, branch string) (Workspace, error) {
	c.calls = append(c.calls, "clone "+branch)
	if c.cloneErr != nil {
		return nil, c.cloneErr
	}
	if _, ok := c.branches[branch]; !ok {
		return nil, fmt.Errorf("clone %s: %w", url, git.ErrBranchMissing)
	}

	ws := &fakeWorkspace{owner: c, trees: map[string]*billy.FS{}, current: branch}
	for name, files := range c.branches {
		tree := billy.NewInMemoryFS()
		for path, content := range files {
			if err := tree.WriteFile(path, []byte(content), 0o644); err != nil {
				return nil, err
			}
		}
		ws.trees[name] = tree
	}
	c.ws = ws
	return ws, nil
}

type fakeWorkspace struct {
	owner   *fakeCloner
	trees   map[string]*billy.FS
	current string
	closed  bool
}

func (w *fakeWorkspace) record(call string) {
	w.owner.calls = append(w.owner.calls, call)
}

func (w *fakeWorkspace) FS() fs.Filesystem {
	return w.trees[w.current]
}

func (w *fakeWorkspace) file(branch, path string) string {
	data, err := w.trees[branch].ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func (w *fakeWorkspace) CheckoutBranch(_ context.Context, name string) error {
	w.record("checkout " + name)
	if _, ok := w.trees[name]; !ok {
		return git.WrapErrorf(git.ErrBranchMissing, "branch %q", name)
	}
	w.current = name
	return nil
}

func (w *fakeWorkspace) CommitAll(_ context.Context, msg string) (string, error) {
	w.record("commit " + msg)
	return "0123456789abcdef", nil
}

func (w *fakeWorkspace) PushBranch(context.Context) error {
	w.record("push " + w.current)
	return w.owner.pushErr
}

func (w *fakeWorkspace) Tag(_ context.Context, name string) error {
	w.record("tag " + name)
	return nil
}

func (w *fakeWorkspace) PushTag(_ context.Context, name string) error {
	w.record("push-tag " + name)
	return nil
}

func (w *fakeWorkspace) Close() error {
	w.record("close")
	w.closed = true
	return nil
}
