package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit(t *testing.T) {
	t.Run("records author and message", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)
		require.NoError(t, tr.fs.WriteFile("CHANGELOG.md", []byte("# 5.2.1\n"), 0o644))
		require.NoError(t, tr.repo.AddAll(tr.ctx))

		hash, err := tr.repo.Commit(tr.ctx, "Updated changelog/package.json for 5.2.1 release", testSig, CommitOpts{})
		require.NoError(t, err)
		assert.Len(t, hash, 40)

		msg, err := tr.repo.HeadMessage(tr.ctx)
		require.NoError(t, err)
		assert.Equal(t, "Updated changelog/package.json for 5.2.1 release", msg)

		head, err := tr.repo.repo.Head()
		require.NoError(t, err)
		assert.Equal(t, hash, head.Hash().String())
	})

	t.Run("nothing staged", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)
		_, err := tr.repo.Commit(tr.ctx, "empty", testSig, CommitOpts{})
		assert.True(t, errors.Is(err, ErrEmptyCommit))
	})

	t.Run("allow empty", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)
		_, err := tr.repo.Commit(tr.ctx, "empty", testSig, CommitOpts{AllowEmpty: true})
		assert.NoError(t, err)
	})

	t.Run("empty message", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)
		_, err := tr.repo.Commit(tr.ctx, "", testSig, CommitOpts{AllowEmpty: true})
		assert.True(t, errors.Is(err, ErrInvalidRef))
	})
}

func TestHasChanges(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, tr *testRepo)
		dir   string
		want  bool
	}{
		{
			name: "clean worktree",
			dir:  "screenshots-baseline",
			want: false,
		},
		{
			name: "untracked file in directory",
			setup: func(t *testing.T, tr *testRepo) {
				require.NoError(t, tr.fs.WriteFile("screenshots-baseline/a.png", []byte("png"), 0o644))
			},
			dir:  "screenshots-baseline",
			want: true,
		},
		{
			name: "change outside directory",
			setup: func(t *testing.T, tr *testRepo) {
				require.NoError(t, tr.fs.WriteFile("other/a.png", []byte("png"), 0o644))
			},
			dir:  "screenshots-baseline",
			want: false,
		},
		{
			name: "modified tracked file anywhere",
			setup: func(t *testing.T, tr *testRepo) {
				require.NoError(t, tr.fs.WriteFile("package.json", []byte(`{"version":"5.2.1"}`), 0o644))
			},
			dir:  "",
			want: true,
		},
		{
			name: "directory prefix is not a partial name match",
			setup: func(t *testing.T, tr *testRepo) {
				require.NoError(t, tr.fs.WriteFile("screenshots-baseline-old/a.png", []byte("png"), 0o644))
			},
			dir:  "screenshots-baseline",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := setupTestRepoWithCommit(t)
			if tt.setup != nil {
				tt.setup(t, tr)
			}

			got, err := tr.repo.HasChanges(tr.ctx, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
