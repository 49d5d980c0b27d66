package fsops

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tympanix/gosh/internal/shellerr"
)

func names(l *Listing) []string {
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Name
	}
	return out
}

func listFixture(t *testing.T) (*Ops, string) {
	t.Helper()
	ops, dir := newOsOps(t, map[string]string{
		".hidden": "h",
		"visible": "v",
		"Zeta":    "z",
		"dir/":    "",
		"run.sh":  "#!/bin/sh\n",
	})
	if err := os.Chmod(filepath.Join(dir, "run.sh"), 0755); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	if err := os.Chmod(filepath.Join(dir, "visible"), 0644); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	return ops, dir
}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"plain", ListOptions{}, []string{"Zeta", "dir", "run.sh", "visible"}},
		{"all", ListOptions{ShowHidden: true}, []string{".", "..", ".hidden", "Zeta", "dir", "run.sh", "visible"}},
		{"ignore", ListOptions{Ignore: []string{"*.sh", "Z*"}}, []string{"dir", "visible"}},
		{"ignore brace alternatives", ListOptions{Ignore: []string{"{Zeta,visible}"}}, []string{"dir", "run.sh"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, dir := listFixture(t)
			listing, err := ops.List(dir, ".", tt.opts)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if got := names(listing); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("names = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListClassify(t *testing.T) {
	ops, dir := listFixture(t)

	listing, err := ops.List(dir, ".", ListOptions{Classify: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var buf bytes.Buffer
	if err := listing.Write(&buf, time.Now()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "Zeta\ndir/\nrun.sh*\nvisible\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestListLong(t *testing.T) {
	ops, dir := listFixture(t)
	if err := os.Symlink("visible", filepath.Join(dir, "link")); err != nil {
		t.Fatalf("symlink failed: %v", err)
	}

	listing, err := ops.List(dir, ".", ListOptions{Long: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var buf bytes.Buffer
	if err := listing.Write(&buf, time.Now()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if !strings.HasPrefix(lines[0], "total ") {
		t.Errorf("Expected total line first, got %q", lines[0])
	}
	if len(lines) != 6 {
		t.Fatalf("Expected total plus 5 rows, got %d:\n%s", len(lines), buf.String())
	}

	rows := map[string]string{}
	for _, line := range lines[1:] {
		name, _, _ := strings.Cut(line, " -> ")
		fields := strings.Fields(name)
		rows[fields[len(fields)-1]] = line
	}
	if row := rows["visible"]; !strings.HasPrefix(row, "-rw-r--r--") {
		t.Errorf("visible row = %q", row)
	}
	if row := rows["run.sh"]; !strings.HasPrefix(row, "-rwxr-xr-x") {
		t.Errorf("run.sh row = %q", row)
	}
	if row := rows["dir"]; !strings.HasPrefix(row, "d") {
		t.Errorf("dir row = %q", row)
	}
	if row := rows["link"]; !strings.HasPrefix(row, "l") || !strings.HasSuffix(row, "link -> visible") {
		t.Errorf("link row = %q", row)
	}
}

func TestListFileOperand(t *testing.T) {
	ops, dir := listFixture(t)

	listing, err := ops.List(dir, "visible", ListOptions{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if listing.IsDir {
		t.Error("Expected a file listing")
	}
	if got := names(listing); !reflect.DeepEqual(got, []string{"visible"}) {
		t.Errorf("names = %v", got)
	}

	var buf bytes.Buffer
	long, err := ops.List(dir, "visible", ListOptions{Long: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if err := long.Write(&buf, time.Now()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.HasPrefix(buf.String(), "total") {
		t.Errorf("File listing should not print total: %q", buf.String())
	}
}

func TestListMissing(t *testing.T) {
	ops, dir := listFixture(t)

	_, err := ops.List(dir, "nope", ListOptions{})
	assertKind(t, err, shellerr.NotFound)
	if want := "ls: cannot access 'nope': No such file or directory"; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestListMemFs(t *testing.T) {
	ops := newMemOps(t, map[string]string{"b": "bb", "a/": "", ".c": ""})

	listing, err := ops.List("/work", "", ListOptions{Long: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := names(listing); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("names = %v", got)
	}
	for _, e := range listing.Entries {
		if e.Links != 1 || e.Owner == "" {
			t.Errorf("Expected fallback metadata for %s, got links=%d owner=%q", e.Name, e.Links, e.Owner)
		}
	}
}

func TestClassifySuffix(t *testing.T) {
	tests := []struct {
		mode os.FileMode
		want string
	}{
		{os.ModeDir | 0755, "/"},
		{os.ModeSymlink | 0777, ""},
		{os.ModeNamedPipe | 0644, "|"},
		{os.ModeSocket | 0755, "="},
		{0755, "*"},
		{0100, "*"},
		{0644, ""},
	}

	for _, tt := range tests {
		if got := ClassifySuffix(tt.mode); got != tt.want {
			t.Errorf("ClassifySuffix(%v) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode os.FileMode
		want string
	}{
		{0644, "-rw-r--r--"},
		{0755, "-rwxr-xr-x"},
		{os.ModeDir | 0700, "drwx------"},
		{os.ModeSymlink | 0777, "lrwxrwxrwx"},
		{os.ModeNamedPipe | 0600, "prw-------"},
		{os.ModeDevice | os.ModeCharDevice | 0666, "crw-rw-rw-"},
		{os.ModeDevice | 0660, "brw-rw----"},
		{0, "----------"},
	}

	for _, tt := range tests {
		if got := ModeString(tt.mode); got != tt.want {
			t.Errorf("ModeString(%v) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		mtime time.Time
		want  string
	}{
		{"same year", time.Date(2024, time.March, 5, 9, 7, 0, 0, time.UTC), "Mar  5 09:07"},
		{"two digit day", time.Date(2024, time.June, 14, 23, 59, 0, 0, time.UTC), "Jun 14 23:59"},
		{"other year", time.Date(2021, time.December, 25, 8, 0, 0, 0, time.UTC), "Dec 25  2021"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.mtime, now); got != tt.want {
				t.Errorf("FormatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
