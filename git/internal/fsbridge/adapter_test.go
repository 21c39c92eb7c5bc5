package fsbridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackbaud/skyux-sdk-actions/fs/billy"
)

type foreignFS struct{}

func (foreignFS) Exists(string) (bool, error)                 { return false, nil }
func (foreignFS) MkdirAll(string, os.FileMode) error          { return nil }
func (foreignFS) ReadDir(string) ([]os.FileInfo, error)       { return nil, nil }
func (foreignFS) ReadFile(string) ([]byte, error)             { return nil, nil }
func (foreignFS) WriteFile(string, []byte, os.FileMode) error { return nil }
func (foreignFS) Remove(string) error                         { return nil }
func (foreignFS) RemoveAll(string) error                      { return nil }
func (foreignFS) Stat(string) (os.FileInfo, error)            { return nil, os.ErrNotExist }
func (foreignFS) Walk(string, filepath.WalkFunc) error        { return nil }

func TestToBillyFilesystem(t *testing.T) {
	t.Run("success with billy.FS", func(t *testing.T) {
		memFS := memfs.New()

		result, err := ToBillyFilesystem(billy.NewFS(memFS))
		require.NoError(t, err)
		assert.Equal(t, memFS, result)
	})

	t.Run("error with foreign filesystem", func(t *testing.T) {
		result, err := ToBillyFilesystem(foreignFS{})
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "filesystem must be a billy.FS")
	})
}

func TestNewStorage(t *testing.T) {
	for _, size := range []int{-1, 0, 500} {
		storage := NewStorage(memfs.New(), size)
		assert.NotNil(t, storage)
	}
}
