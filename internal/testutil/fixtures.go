// Package testutil holds filesystem fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// WriteTree creates files below root. Keys are slash separated paths
// relative to root; a key ending in "/" creates a directory and its value
// is ignored. Files are written with mode 0644.
func WriteTree(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()
	if err := fs.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", root, err)
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := fs.MkdirAll(p, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", name, err)
			}
			continue
		}
		WriteFile(t, fs, p, content, 0644)
	}
}

// WriteFile writes content to p with exactly perm, creating parents
func WriteFile(t *testing.T, fs afero.Fs, p, content string, perm os.FileMode) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", p, err)
	}
	if err := afero.WriteFile(fs, p, []byte(content), perm); err != nil {
		t.Fatalf("Failed to create test file %s: %v", p, err)
	}
	if err := fs.Chmod(p, perm); err != nil {
		t.Fatalf("Failed to chmod %s: %v", p, err)
	}
}

// ReadFile returns the content of p, failing the test when it is missing
func ReadFile(t *testing.T, fs afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", p, err)
	}
	return string(data)
}

// Exists reports whether p can be stat'ed
func Exists(fs afero.Fs, p string) bool {
	_, err := fs.Stat(p)
	return err == nil
}
