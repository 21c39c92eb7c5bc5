package fs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CopyDir copies every regular file below srcDir in src to the same
// relative location below dstDir in dst, creating directories as needed.
// Existing files are overwritten. It returns the number of files copied.
func CopyDir(src Filesystem, srcDir string, dst Filesystem, dstDir string) (int, error) {
	copied := 0
	err := src.Walk(srcDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(filepath.ToSlash(p), strings.TrimSuffix(filepath.ToSlash(srcDir), "/"))
		rel = strings.TrimPrefix(rel, "/")
		target := path.Join(dstDir, rel)

		data, err := src.ReadFile(p)
		if err != nil {
			return err
		}
		if err := dst.MkdirAll(path.Dir(target), 0o755); err != nil {
			return err
		}
		if err := dst.WriteFile(target, data, info.Mode().Perm()); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copy %q to %q: %w", srcDir, dstDir, err)
	}
	return copied, nil
}
