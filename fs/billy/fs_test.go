package billy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/fs/fstest"
)

func TestConformance(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		fstest.TestSuite(t, func(*testing.T) fs.Filesystem { return NewInMemoryFS() })
	})
	t.Run("os", func(t *testing.T) {
		fstest.TestSuite(t, func(t *testing.T) fs.Filesystem { return NewOSFS(t.TempDir()) })
	})
}

func filesystems(t *testing.T) map[string]*FS {
	t.Helper()
	return map[string]*FS{
		"memory": NewInMemoryFS(),
		"os":     NewOSFS(t.TempDir()),
	}
}

func TestFS_WriteReadRemove(t *testing.T) {
	for name, fsys := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, fsys.WriteFile("a/b/file.txt", []byte("hello"), 0o644))

			ok, err := fsys.Exists("a/b/file.txt")
			require.NoError(t, err)
			assert.True(t, ok)

			data, err := fsys.ReadFile("a/b/file.txt")
			require.NoError(t, err)
			assert.Equal(t, "hello", string(data))

			info, err := fsys.Stat("a/b")
			require.NoError(t, err)
			assert.True(t, info.IsDir())

			require.NoError(t, fsys.Remove("a/b/file.txt"))
			ok, err = fsys.Exists("a/b/file.txt")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFS_RemoveAll(t *testing.T) {
	for name, fsys := range filesystems(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, fsys.WriteFile("tmp/x/1.txt", []byte("1"), 0o644))
			require.NoError(t, fsys.WriteFile("tmp/2.txt", []byte("2"), 0o644))

			require.NoError(t, fsys.RemoveAll("tmp"))
			ok, err := fsys.Exists("tmp")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, fsys.RemoveAll("never-existed"))
		})
	}
}

func TestFS_Chroot(t *testing.T) {
	fsys := NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("clone/package.json", []byte("{}"), 0o644))

	sub, err := fsys.Chroot("clone")
	require.NoError(t, err)

	data, err := sub.ReadFile("package.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestCopyDir(t *testing.T) {
	src := NewInMemoryFS()
	dst := NewInMemoryFS()
	require.NoError(t, src.WriteFile("screenshots-baseline/a.png", []byte("a"), 0o644))
	require.NoError(t, src.WriteFile("screenshots-baseline/nested/b.png", []byte("b"), 0o644))

	n, err := fs.CopyDir(src, "screenshots-baseline", dst, "clone/screenshots-baseline")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := dst.ReadFile("clone/screenshots-baseline/nested/b.png")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	_, err = fs.CopyDir(src, "missing", dst, "out")
	assert.Error(t, err)
}
