package git

import (
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutBranch(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, tr *testRepo)
		branch   string
		wantErr  error
		validate func(t *testing.T, tr *testRepo)
	}{
		{
			name: "existing local branch",
			setup: func(t *testing.T, tr *testRepo) {
				require.NoError(t, tr.repo.CreateBranch(tr.ctx, "feature"))
			},
			branch: "feature",
			validate: func(t *testing.T, tr *testRepo) {
				branch, err := tr.repo.CurrentBranch(tr.ctx)
				require.NoError(t, err)
				assert.Equal(t, "feature", branch)
			},
		},
		{
			name: "created from remote-tracking branch",
			setup: func(t *testing.T, tr *testRepo) {
				head, err := tr.repo.repo.Head()
				require.NoError(t, err)
				ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(DefaultRemoteName, "5.x.x"), head.Hash())
				require.NoError(t, tr.repo.repo.Storer.SetReference(ref))
			},
			branch: "5.x.x",
			validate: func(t *testing.T, tr *testRepo) {
				branch, err := tr.repo.CurrentBranch(tr.ctx)
				require.NoError(t, err)
				assert.Equal(t, "5.x.x", branch)

				ok, err := tr.repo.HasBranch(tr.ctx, "5.x.x")
				require.NoError(t, err)
				assert.True(t, ok)
			},
		},
		{
			name:    "missing branch",
			branch:  "4.x.x",
			wantErr: ErrBranchMissing,
			validate: func(t *testing.T, tr *testRepo) {
				branch, err := tr.repo.CurrentBranch(tr.ctx)
				require.NoError(t, err)
				assert.Equal(t, "master", branch)
			},
		},
		{
			name:    "empty name",
			branch:  "",
			wantErr: ErrInvalidRef,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := setupTestRepoWithCommit(t)
			if tt.setup != nil {
				tt.setup(t, tr)
			}

			err := tr.repo.CheckoutBranch(tr.ctx, tt.branch)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			if tt.validate != nil {
				tt.validate(t, tr)
			}
		})
	}
}

func TestHasBranch(t *testing.T) {
	tr := setupTestRepoWithCommit(t)

	ok, err := tr.repo.HasBranch(tr.ctx, "master")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.repo.HasBranch(tr.ctx, "4.x.x")
	require.NoError(t, err)
	assert.False(t, ok)
}
