package fsops

import (
	"testing"

	"github.com/tympanix/gosh/internal/shellerr"
)

func TestMkdir(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		parents bool
		wantErr bool
		kind    shellerr.Kind
		message string
	}{
		{name: "new directory", path: "d"},
		{name: "nested with parents", path: "a/b/c", parents: true},
		{name: "existing with parents", path: "existing", parents: true},
		{
			name: "existing", path: "existing", wantErr: true, kind: shellerr.AlreadyExists,
			message: "mkdir: cannot create directory 'existing': File exists",
		},
		{
			name: "existing file", path: "file.txt", wantErr: true, kind: shellerr.AlreadyExists,
			message: "mkdir: cannot create directory 'file.txt': File exists",
		},
		{
			name: "existing file with parents", path: "file.txt", parents: true, wantErr: true, kind: shellerr.AlreadyExists,
			message: "mkdir: cannot create directory 'file.txt': File exists",
		},
		{
			name: "missing parent", path: "x/y", wantErr: true, kind: shellerr.NotFound,
			message: "mkdir: cannot create directory 'x/y': No such file or directory",
		},
		{
			name: "parent is a file", path: "file.txt/sub", wantErr: true, kind: shellerr.IoFailure,
			message: "mkdir: cannot create directory 'file.txt/sub': Not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := newMemOps(t, map[string]string{"existing/": "", "file.txt": "f"})

			err := ops.Mkdir("/work", tt.path, tt.parents)
			if tt.wantErr {
				assertKind(t, err, tt.kind)
				if err.Error() != tt.message {
					t.Errorf("message = %q, want %q", err.Error(), tt.message)
				}
				return
			}
			if err != nil {
				t.Fatalf("Mkdir() error = %v", err)
			}
			if !ops.isDir(Resolve("/work", tt.path)) {
				t.Errorf("Expected %s to be a directory", tt.path)
			}
		})
	}
}

func TestMkdirTwice(t *testing.T) {
	ops := newMemOps(t, nil)

	if err := ops.Mkdir("/work", "d", false); err != nil {
		t.Fatalf("First Mkdir() error = %v", err)
	}
	err := ops.Mkdir("/work", "d", false)
	assertKind(t, err, shellerr.AlreadyExists)

	for i := 0; i < 2; i++ {
		if err := ops.Mkdir("/work", "p/q", true); err != nil {
			t.Fatalf("Mkdir -p run %d error = %v", i+1, err)
		}
	}
}
