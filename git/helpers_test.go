package git

import (
	"context"
	"os/exec"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	fsb "github.com/blackbaud/skyux-sdk-actions/fs/billy"
)

var testSig = Signature{
	Name:  "Test User",
	Email: "test@example.com",
	When:  time.Date(2021, 3, 4, 12, 0, 0, 0, time.UTC),
}

// testRepo is a repository on an in-memory filesystem.
type testRepo struct {
	repo *Repo
	fs   *fsb.FS
	ctx  context.Context
}

func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := fsb.NewInMemoryFS()

	repo, err := Init(ctx, &Options{FS: memFS})
	require.NoError(t, err, "failed to initialize test repository")

	return &testRepo{repo: repo, fs: memFS, ctx: ctx}
}

// setupTestRepoWithCommit creates a repository whose master branch has one commit.
func setupTestRepoWithCommit(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepo(t)
	tr.commitFile(t, "package.json", `{"version":"5.2.0"}`, "Initial commit")
	return tr
}

func (tr *testRepo) commitFile(t *testing.T, name, content, msg string) string {
	t.Helper()

	require.NoError(t, tr.fs.WriteFile(name, []byte(content), 0o644))
	require.NoError(t, tr.repo.AddAll(tr.ctx))
	hash, err := tr.repo.Commit(tr.ctx, msg, testSig, CommitOpts{})
	require.NoError(t, err)
	return hash
}

// requireGitTransport skips tests that need the local file transport,
// which go-git implements by running git-upload-pack and git-receive-pack.
func requireGitTransport(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"git-upload-pack", "git-receive-pack"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available: %v", bin, err)
		}
	}
}

// setupOrigin creates a bare repository on disk with a master branch and,
// for each extra branch, a branch holding its own package.json commit.
func setupOrigin(t *testing.T, extraBranches ...string) string {
	t.Helper()
	requireGitTransport(t)

	ctx := context.Background()
	originDir := t.TempDir()
	_, err := gogit.PlainInit(originDir, true)
	require.NoError(t, err)

	seedFS := fsb.NewOSFS(t.TempDir())
	seed, err := Init(ctx, &Options{FS: seedFS})
	require.NoError(t, err)
	require.NoError(t, seed.AddRemote(ctx, DefaultRemoteName, originDir))

	tr := &testRepo{repo: seed, fs: seedFS, ctx: ctx}
	tr.commitFile(t, "package.json", `{"version":"6.23.0"}`, "Initial commit")
	require.NoError(t, seed.PushBranch(ctx, "master"))

	for _, branch := range extraBranches {
		require.NoError(t, seed.CreateBranch(ctx, branch))
		require.NoError(t, seed.CheckoutBranch(ctx, branch))
		tr.commitFile(t, "package.json", `{"version":"5.9.2"}`, "Release "+branch)
		require.NoError(t, seed.PushBranch(ctx, branch))
		require.NoError(t, seed.CheckoutBranch(ctx, "master"))
	}

	return originDir
}
