// Package fstest provides a conformance suite for fs.Filesystem
// implementations.
//
// The suite checks the contract the workspace, manifest and screenshot
// packages rely on: slash-separated relative paths, parent directories
// created on write, a missing path reported by Exists rather than as an
// error, and Walk visiting every file below a root.
//
//	func TestConformance(t *testing.T) {
//	    fstest.TestSuite(t, func(t *testing.T) fs.Filesystem {
//	        return billy.NewInMemoryFS()
//	    })
//	}
package fstest

import (
	"slices"
	"testing"

	"github.com/blackbaud/skyux-sdk-actions/fs"
)

// TestSuite runs every conformance test. newFS must return a fresh, empty
// filesystem on each call.
func TestSuite(t *testing.T, newFS func(t *testing.T) fs.Filesystem) {
	TestSuiteWithSkip(t, newFS, nil)
}

// TestSuiteWithSkip runs the conformance tests except the named ones
// (e.g. "Walk").
func TestSuiteWithSkip(t *testing.T, newFS func(t *testing.T) fs.Filesystem, skipTests []string) {
	tests := []struct {
		name string
		run  func(t *testing.T, filesystem fs.Filesystem)
	}{
		{"Read", TestRead},
		{"Write", TestWrite},
		{"Manage", TestManage},
		{"Walk", TestWalk},
		{"CopyDir", TestCopyDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if slices.Contains(skipTests, tt.name) {
				t.Skip("Skipped by provider configuration")
				return
			}
			tt.run(t, newFS(t))
		})
	}
}

func mustWrite(t *testing.T, filesystem fs.Filesystem, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := filesystem.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%q): setup failed: %v", name, err)
		}
	}
}
