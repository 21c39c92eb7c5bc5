package fstest

import (
	"testing"

	"github.com/blackbaud/skyux-sdk-actions/fs"
)

// TestRead covers Exists, Stat, ReadDir and ReadFile.
func TestRead(t *testing.T, filesystem fs.Filesystem) {
	content := "test file content"
	mustWrite(t, filesystem, map[string]string{"testdir/testfile.txt": content})

	for _, tt := range []struct {
		path string
		want bool
	}{
		{"testdir/testfile.txt", true},
		{"testdir", true},
		{"missing.txt", false},
		{"testdir/missing/deeper.txt", false},
	} {
		got, err := filesystem.Exists(tt.path)
		if err != nil {
			t.Errorf("Exists(%q): got error %v, want nil", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	info, err := filesystem.Stat("testdir/testfile.txt")
	if err != nil {
		t.Fatalf("Stat(%q): got error %v, want nil", "testdir/testfile.txt", err)
	}
	if info.IsDir() || info.Size() != int64(len(content)) {
		t.Errorf("Stat(%q): IsDir() = %v, Size() = %d; want false, %d", "testdir/testfile.txt", info.IsDir(), info.Size(), len(content))
	}

	info, err = filesystem.Stat("testdir")
	if err != nil {
		t.Fatalf("Stat(%q): got error %v, want nil", "testdir", err)
	}
	if !info.IsDir() {
		t.Errorf("Stat(%q): IsDir() = false, want true", "testdir")
	}

	entries, err := filesystem.ReadDir("testdir")
	if err != nil {
		t.Fatalf("ReadDir(%q): got error %v, want nil", "testdir", err)
	}
	if len(entries) != 1 || entries[0].Name() != "testfile.txt" {
		t.Errorf("ReadDir(%q): got %d entries, want [testfile.txt]", "testdir", len(entries))
	}

	data, err := filesystem.ReadFile("testdir/testfile.txt")
	if err != nil {
		t.Fatalf("ReadFile(%q): got error %v, want nil", "testdir/testfile.txt", err)
	}
	if string(data) != content {
		t.Errorf("ReadFile(%q): got %q, want %q", "testdir/testfile.txt", data, content)
	}

	if _, err := filesystem.ReadFile("missing.txt"); err == nil {
		t.Errorf("ReadFile(%q): got nil error, want an error", "missing.txt")
	}
}
