package fstest

import (
	"testing"

	"github.com/blackbaud/skyux-sdk-actions/fs"
)

// TestWrite covers WriteFile and MkdirAll.
func TestWrite(t *testing.T, filesystem fs.Filesystem) {
	t.Run("CreatesParents", func(t *testing.T) {
		if err := filesystem.WriteFile("a/b/c/file.json", []byte(`{}`), 0o644); err != nil {
			t.Fatalf("WriteFile(%q): got error %v, want nil", "a/b/c/file.json", err)
		}
		info, err := filesystem.Stat("a/b/c")
		if err != nil || !info.IsDir() {
			t.Errorf("Stat(%q): got %v, want a directory", "a/b/c", err)
		}
	})

	t.Run("Overwrites", func(t *testing.T) {
		mustWrite(t, filesystem, map[string]string{"CHANGELOG.md": "a longer first version"})
		mustWrite(t, filesystem, map[string]string{"CHANGELOG.md": "short"})
		data, err := filesystem.ReadFile("CHANGELOG.md")
		if err != nil {
			t.Fatalf("ReadFile(%q): got error %v, want nil", "CHANGELOG.md", err)
		}
		if string(data) != "short" {
			t.Errorf("ReadFile(%q): got %q, want %q", "CHANGELOG.md", data, "short")
		}
	})

	t.Run("MkdirAll", func(t *testing.T) {
		if err := filesystem.MkdirAll("x/y/z", 0o755); err != nil {
			t.Fatalf("MkdirAll(%q): got error %v, want nil", "x/y/z", err)
		}
		if err := filesystem.MkdirAll("x/y/z", 0o755); err != nil {
			t.Errorf("MkdirAll(%q) twice: got error %v, want nil", "x/y/z", err)
		}
		ok, err := filesystem.Exists("x/y/z")
		if err != nil || !ok {
			t.Errorf("Exists(%q) = %v, %v; want true, nil", "x/y/z", ok, err)
		}
	})
}
