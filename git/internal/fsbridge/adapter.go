// Package fsbridge adapts fs.Filesystem values to the billy.Filesystem go-git needs.
package fsbridge

import (
	"fmt"

	"github.com/go-git/go-billy/v5"

	"github.com/blackbaud/skyux-sdk-actions/fs"
	fsb "github.com/blackbaud/skyux-sdk-actions/fs/billy"
)

// ToBillyFilesystem converts an fs.Filesystem to a billy.Filesystem.
// The passed filesystem must be a *billy.FS from the fs/billy package.
//
//nolint:ireturn // returns interface as required by go-git storage
func ToBillyFilesystem(fsys fs.Filesystem) (billy.Filesystem, error) {
	billyFS, ok := fsys.(*fsb.FS)
	if !ok {
		return nil, fmt.Errorf("filesystem must be a billy.FS from fs/billy package, got %T", fsys)
	}
	return billyFS.Raw(), nil
}
