package screenshots

import (
	"context"

	"github.com/blackbaud/skyux-sdk-actions/workspace"
)

type workspaceCloner struct {
	cloner *workspace.Cloner
}

// NewWorkspaceCloner adapts a workspace.Cloner to Cloner.
//
//nolint:ireturn // the Committer only needs the Cloner contract
func NewWorkspaceCloner(c *workspace.Cloner) Cloner {
	return workspaceCloner{cloner: c}
}

func (w workspaceCloner) Clone(ctx context.Context, url, branch string) (Workspace, error) {
	ws, err := w.cloner.Clone(ctx, url, branch)
	if err != nil {
		return nil, err
	}
	return ws, nil
}
