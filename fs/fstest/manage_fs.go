package fstest

import (
	"testing"

	"github.com/blackbaud/skyux-sdk-actions/fs"
)

// TestManage covers Remove and RemoveAll.
func TestManage(t *testing.T, filesystem fs.Filesystem) {
	mustWrite(t, filesystem, map[string]string{
		"dist/my-lib/.npmrc":         "token",
		"tmp/clone/package.json":     "{}",
		"tmp/clone/src/CHANGELOG.md": "",
	})

	if err := filesystem.Remove("dist/my-lib/.npmrc"); err != nil {
		t.Fatalf("Remove(%q): got error %v, want nil", "dist/my-lib/.npmrc", err)
	}
	if ok, _ := filesystem.Exists("dist/my-lib/.npmrc"); ok {
		t.Errorf("Exists(%q) after Remove = true, want false", "dist/my-lib/.npmrc")
	}
	if err := filesystem.Remove("dist/my-lib/.npmrc"); err == nil {
		t.Errorf("Remove(%q) twice: got nil error, want an error", "dist/my-lib/.npmrc")
	}

	if err := filesystem.RemoveAll("tmp/clone"); err != nil {
		t.Fatalf("RemoveAll(%q): got error %v, want nil", "tmp/clone", err)
	}
	if ok, _ := filesystem.Exists("tmp/clone/src/CHANGELOG.md"); ok {
		t.Errorf("Exists(%q) after RemoveAll = true, want false", "tmp/clone/src/CHANGELOG.md")
	}
	if err := filesystem.RemoveAll("tmp/clone"); err != nil {
		t.Errorf("RemoveAll(%q) on a missing path: got error %v, want nil", "tmp/clone", err)
	}
}
