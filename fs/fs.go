// Package fs defines the filesystem abstraction used by the workspace,
// manifest and screenshot packages. Implementations live in subpackages;
// fs/billy provides OS-backed and in-memory filesystems.
package fs

import (
	"os"
	"path/filepath"
)

// Filesystem is the set of operations the CI packages perform on files.
// Paths are slash-separated and relative to the filesystem root.
type Filesystem interface {
	Exists(path string) (bool, error)
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(dirname string) ([]os.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
	Remove(name string) error
	RemoveAll(path string) error
	Stat(name string) (os.FileInfo, error)
	Walk(root string, walkFn filepath.WalkFunc) error
}
