package fsops

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tympanix/gosh/internal/shellerr"
	"github.com/tympanix/gosh/internal/testutil"
	"github.com/tympanix/gosh/internal/util"
)

func TestRemove(t *testing.T) {
	tests := []struct {
		name    string
		paths   []string
		opts    RemoveOptions
		kind    shellerr.Kind
		wantErr bool
		gone    []string
		kept    []string
	}{
		{
			name:  "file",
			paths: []string{"f.txt"},
			gone:  []string{"/work/f.txt"},
		},
		{
			name:  "empty directory without recursive",
			paths: []string{"empty"},
			gone:  []string{"/work/empty"},
		},
		{
			name:    "non-empty directory without recursive",
			paths:   []string{"full"},
			wantErr: true,
			kind:    shellerr.DirectoryNotEmpty,
			kept:    []string{"/work/full/inner.txt"},
		},
		{
			name:  "non-empty directory recursive",
			paths: []string{"full"},
			opts:  RemoveOptions{Recursive: true},
			gone:  []string{"/work/full"},
		},
		{
			name:    "missing",
			paths:   []string{"nope"},
			wantErr: true,
			kind:    shellerr.NotFound,
		},
		{
			name:  "missing with force",
			paths: []string{"nope"},
			opts:  RemoveOptions{Force: true},
		},
		{
			name:  "force continues past missing",
			paths: []string{"f.txt", "nope", "g.txt"},
			opts:  RemoveOptions{Force: true},
			gone:  []string{"/work/f.txt", "/work/g.txt"},
		},
		{
			name:    "every operand is attempted",
			paths:   []string{"nope", "f.txt", "full"},
			wantErr: true,
			kind:    shellerr.NotFound,
			gone:    []string{"/work/f.txt"},
			kept:    []string{"/work/full"},
		},
		{
			name:    "force does not hide other failures",
			paths:   []string{"full"},
			opts:    RemoveOptions{Force: true},
			wantErr: true,
			kind:    shellerr.DirectoryNotEmpty,
		},
		{
			name:    "dot is refused",
			paths:   []string{"."},
			opts:    RemoveOptions{Recursive: true},
			wantErr: true,
			kind:    shellerr.IoFailure,
			kept:    []string{"/work/f.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := newMemOps(t, map[string]string{
				"f.txt":          "f",
				"g.txt":          "g",
				"empty/":         "",
				"full/inner.txt": "i",
			})

			err := ops.Remove("/work", tt.paths, tt.opts)
			if tt.wantErr {
				assertKind(t, err, tt.kind)
			} else if err != nil {
				t.Fatalf("Remove() error = %v", err)
			}

			for _, p := range tt.gone {
				if testutil.Exists(ops.Fs(), p) {
					t.Errorf("Expected %s to be removed", p)
				}
			}
			for _, p := range tt.kept {
				if !testutil.Exists(ops.Fs(), p) {
					t.Errorf("Expected %s to survive", p)
				}
			}
		})
	}
}

func TestRemoveMessages(t *testing.T) {
	ops := newMemOps(t, map[string]string{"full/inner.txt": "i"})

	err := ops.Remove("/work", []string{"full"}, RemoveOptions{})
	if want := "rm: cannot remove 'full': Directory not empty"; err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}

	err = ops.Remove("/work", []string{"nope"}, RemoveOptions{})
	if want := "rm: cannot remove 'nope': No such file or directory"; err == nil || err.Error() != want {
		t.Errorf("error = %v, want %q", err, want)
	}
}

func TestRemoveLogsLaterFailures(t *testing.T) {
	fs := newMemOps(t, map[string]string{"full/inner.txt": "i"}).Fs()
	var buf bytes.Buffer
	ops := New(fs, WithLogger(util.NewVerboseLogger(&buf)))

	err := ops.Remove("/work", []string{"one", "two"}, RemoveOptions{})
	if err == nil || !strings.Contains(err.Error(), "'one'") {
		t.Fatalf("Expected first failure to be returned, got %v", err)
	}
	if !strings.Contains(buf.String(), "+ rm: cannot remove 'two'") {
		t.Errorf("Expected second failure in verbose log, got %q", buf.String())
	}
}

func TestRemovePermissionDenied(t *testing.T) {
	skipIfRoot(t)
	ops, dir := newOsOps(t, map[string]string{"locked/f.txt": "f"})
	if err := ops.Fs().Chmod(dir+"/locked", 0555); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer ops.Fs().Chmod(dir+"/locked", 0755)

	err := ops.Remove(dir, []string{"locked/f.txt"}, RemoveOptions{Force: true})
	assertKind(t, err, shellerr.PermissionDenied)
}

func TestRemoveReportsInOrder(t *testing.T) {
	ops := newMemOps(t, map[string]string{"f.txt": "f"})
	var seen []string

	err := ops.Remove("/work", []string{"a", "f.txt", "b"}, RemoveOptions{
		Report: func(err error) { seen = append(seen, err.Error()) },
	})
	if err == nil || !strings.Contains(err.Error(), "'a'") {
		t.Fatalf("Expected first failure for 'a', got %v", err)
	}
	if len(seen) != 2 || !strings.Contains(seen[0], "'a'") || !strings.Contains(seen[1], "'b'") {
		t.Errorf("reported = %q", seen)
	}
	if testutil.Exists(ops.Fs(), "/work/f.txt") {
		t.Error("Expected f.txt to be removed")
	}
}
