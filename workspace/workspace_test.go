package workspace

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/fs/billy"
	"github.com/blackbaud/skyux-sdk-actions/git"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
)

var fixedNow = func() time.Time { return time.Date(2021, 3, 4, 12, 0, 0, 0, time.UTC) }

func requireGitTransport(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"git-upload-pack", "git-receive-pack"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available: %v", bin, err)
		}
	}
}

// setupOrigin creates a bare umbrella repository with master at 6.23.0 and
// each extra branch at 5.9.2.
func setupOrigin(t *testing.T, branches ...string) string {
	t.Helper()
	requireGitTransport(t)

	ctx := context.Background()
	origin := t.TempDir()
	_, err := gogit.PlainInit(origin, true)
	require.NoError(t, err)

	seedFS := billy.NewOSFS(t.TempDir())
	seed, err := git.Init(ctx, &git.Options{FS: seedFS})
	require.NoError(t, err)
	require.NoError(t, seed.AddRemote(ctx, git.DefaultRemoteName, origin))

	commit := func(version, msg string) {
		require.NoError(t, seedFS.WriteFile(manifest.PackageJSON, []byte(`{"version":"`+version+`"}`), 0o644))
		require.NoError(t, seed.AddAll(ctx))
		_, err := seed.Commit(ctx, msg, git.Signature{Name: "Seed", Email: "seed@example.com", When: fixedNow()}, git.CommitOpts{})
		require.NoError(t, err)
	}

	commit("6.23.0", "Initial commit")
	require.NoError(t, seed.PushBranch(ctx, "master"))

	for _, b := range branches {
		require.NoError(t, seed.CreateBranch(ctx, b))
		require.NoError(t, seed.CheckoutBranch(ctx, b))
		commit("5.9.2", "Release "+b)
		require.NoError(t, seed.PushBranch(ctx, b))
		require.NoError(t, seed.CheckoutBranch(ctx, "master"))
	}
	return origin
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func TestCloneAndClose(t *testing.T) {
	origin := setupOrigin(t)
	root := t.TempDir()
	ctx := context.Background()

	ws, err := NewCloner(root, WithClock(fixedNow)).Clone(ctx, origin, "master")
	require.NoError(t, err)

	assert.Equal(t, root, filepath.Dir(ws.Dir()))
	assert.Contains(t, filepath.Base(ws.Dir()), DefaultPrefix)
	assert.Equal(t, "master", ws.Branch())

	doc, err := ws.Store().ReadJSON(manifest.PackageJSON)
	require.NoError(t, err)
	assert.Equal(t, "6.23.0", doc.String("version"))

	require.NoError(t, ws.Close())
	assert.NoDirExists(t, ws.Dir())
	assert.NoError(t, ws.Close(), "second Close is a no-op")
}

func TestCloneDefaultBranch(t *testing.T) {
	origin := setupOrigin(t, "5.x.x")

	ws, err := NewCloner(t.TempDir()).Clone(context.Background(), origin, "")
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	assert.Equal(t, "master", ws.Branch())
}

func TestCloneMissingBranch(t *testing.T) {
	origin := setupOrigin(t)
	root := t.TempDir()

	ws, err := NewCloner(root).Clone(context.Background(), origin, "4.x.x")
	require.Error(t, err)
	assert.Nil(t, ws)
	assert.True(t, errors.Is(err, git.ErrBranchMissing))
	assert.Empty(t, entries(t, root), "failed clone leaves nothing behind")
}

func TestCheckoutCommitTagPush(t *testing.T) {
	origin := setupOrigin(t, "5.x.x")
	ctx := context.Background()

	ws, err := NewCloner(t.TempDir(), WithClock(fixedNow)).Clone(ctx, origin, "master")
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	require.NoError(t, ws.CheckoutBranch(ctx, "5.x.x"))
	assert.Equal(t, "5.x.x", ws.Branch())

	store := ws.Store()
	doc, err := store.ReadJSON(manifest.PackageJSON)
	require.NoError(t, err)
	assert.Equal(t, "5.9.2", doc.String("version"))

	require.NoError(t, doc.Set("5.10.0", "version"))
	require.NoError(t, store.WriteJSON(manifest.PackageJSON, doc))

	changed, err := ws.HasChanges(ctx, "")
	require.NoError(t, err)
	assert.True(t, changed)

	hash, err := ws.CommitAll(ctx, "Updated changelog/package.json for 5.10.0 release")
	require.NoError(t, err)
	require.NoError(t, ws.PushBranch(ctx))
	require.NoError(t, ws.Tag(ctx, "5.10.0"))
	require.NoError(t, ws.PushTag(ctx, "5.10.0"))

	remote, err := gogit.PlainOpen(origin)
	require.NoError(t, err)

	branch, err := remote.Reference(plumbing.NewBranchReferenceName("5.x.x"), true)
	require.NoError(t, err)
	assert.Equal(t, hash, branch.Hash().String())

	tag, err := remote.Reference(plumbing.NewTagReferenceName("5.10.0"), true)
	require.NoError(t, err)
	assert.Equal(t, hash, tag.Hash().String())

	master, err := remote.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.NoError(t, err)
	assert.NotEqual(t, hash, master.Hash().String(), "master is untouched")

	commit, err := remote.CommitObject(plumbing.NewHash(hash))
	require.NoError(t, err)
	assert.Equal(t, BotIdentity.Name, commit.Author.Name)
	assert.Equal(t, BotIdentity.Email, commit.Committer.Email)
}

func TestCheckoutMissingBranch(t *testing.T) {
	origin := setupOrigin(t)
	ctx := context.Background()

	ws, err := NewCloner(t.TempDir()).Clone(ctx, origin, "master")
	require.NoError(t, err)
	defer func() { _ = ws.Close() }()

	err = ws.CheckoutBranch(ctx, "4.x.x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, git.ErrBranchMissing))
	assert.Equal(t, "master", ws.Branch())
}

func TestNewClonerDefaults(t *testing.T) {
	c := NewCloner("", WithTimeout(-1), WithPrefix(""))

	assert.Equal(t, ".", c.root)
	assert.Equal(t, DefaultPrefix, c.prefix)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, BotIdentity, c.identity)
	assert.NotNil(t, c.logger)
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://TOKEN@github.com/blackbaud/skyux-packages.git", "https://github.com/blackbaud/skyux-packages.git"},
		{"https://github.com/blackbaud/skyux-packages.git", "https://github.com/blackbaud/skyux-packages.git"},
		{"/tmp/origin", "/tmp/origin"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, redact(tt.in))
		})
	}
}
