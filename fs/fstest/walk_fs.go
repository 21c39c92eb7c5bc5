package fstest

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/blackbaud/skyux-sdk-actions/fs"
)

// TestWalk checks that Walk visits every file below the root exactly once.
func TestWalk(t *testing.T, filesystem fs.Filesystem) {
	mustWrite(t, filesystem, map[string]string{
		"projects/my-lib/package.json":        "{}",
		"projects/my-lib/src/lib/foo.spec.ts": "",
		"projects/my-lib/src/lib/foo.ts":      "",
		"projects/my-lib-showcase/e2e/x.ts":   "",
	})

	var files []string
	err := filesystem.Walk("projects/my-lib", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, filepath.ToSlash(p))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk(%q): got error %v, want nil", "projects/my-lib", err)
	}

	slices.Sort(files)
	want := []string{
		"projects/my-lib/package.json",
		"projects/my-lib/src/lib/foo.spec.ts",
		"projects/my-lib/src/lib/foo.ts",
	}
	if !slices.Equal(files, want) {
		t.Errorf("Walk(%q): visited %v, want %v", "projects/my-lib", files, want)
	}
}

// TestCopyDir checks fs.CopyDir between two directories of the same filesystem.
func TestCopyDir(t *testing.T, filesystem fs.Filesystem) {
	mustWrite(t, filesystem, map[string]string{
		"screenshots-baseline/chrome/home.png":  "png",
		"screenshots-baseline/chrome/modal.png": "png2",
	})

	n, err := fs.CopyDir(filesystem, "screenshots-baseline", filesystem, "clone/screenshots-baseline")
	if err != nil {
		t.Fatalf("CopyDir: got error %v, want nil", err)
	}
	if n != 2 {
		t.Errorf("CopyDir: copied %d files, want 2", n)
	}

	data, err := filesystem.ReadFile("clone/screenshots-baseline/chrome/modal.png")
	if err != nil {
		t.Fatalf("ReadFile: got error %v, want nil", err)
	}
	if string(data) != "png2" {
		t.Errorf("ReadFile: got %q, want %q", data, "png2")
	}
}
