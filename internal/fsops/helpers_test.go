package fsops

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/shellerr"
	"github.com/tympanix/gosh/internal/testutil"
)

// newMemOps returns ops over an in-memory filesystem seeded with files
// (path -> content, paths ending in "/" are directories) under /work
func newMemOps(t *testing.T, files map[string]string) *Ops {
	t.Helper()
	fs := afero.NewMemMapFs()
	testutil.WriteTree(t, fs, "/work", files)
	return New(fs)
}

// newOsOps returns ops over the real filesystem and a fresh temp dir
func newOsOps(t *testing.T, files map[string]string) (*Ops, string) {
	t.Helper()
	dir := t.TempDir()
	fs := afero.NewOsFs()
	testutil.WriteTree(t, fs, dir, files)
	return New(fs), dir
}

func assertKind(t *testing.T, err error, want shellerr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s error, got nil", want)
	}
	var se *shellerr.Error
	if !errors.As(err, &se) {
		t.Fatalf("Expected *shellerr.Error, got %T: %v", err, err)
	}
	if se.Kind != want {
		t.Errorf("Expected kind %s, got %s (%v)", want, se.Kind, err)
	}
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}
