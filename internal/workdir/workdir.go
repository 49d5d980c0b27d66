// Package workdir holds the shell's current working directory.
//
// The directory is plain state owned by the shell; the process working
// directory is only read once at startup and never changed.
package workdir

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/shellerr"
)

// Dir is the working directory of one shell instance
type Dir struct {
	fs   afero.Fs
	path string
	prev string
	home string
}

// New starts at the process working directory
func New(fs afero.Fs, home string) (*Dir, error) {
	wd, err := os.Getwd()
	if err != nil {
		e := shellerr.Wrap("pwd", "cannot determine current directory", err)
		e.Kind = shellerr.IoFailure
		return nil, e
	}
	return At(fs, wd, home), nil
}

// At starts at path without consulting the OS
func At(fs afero.Fs, path, home string) *Dir {
	return &Dir{fs: fs, path: filepath.Clean(path), home: home}
}

// Get returns the absolute working directory
func (d *Dir) Get() string {
	return d.path
}

// Resolve makes p absolute against the working directory
func (d *Dir) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(d.path, p)
}

// Change moves to target. An empty target means the home directory, "-"
// the previous directory, and a leading "~" expands to home. On failure the
// working directory is left unchanged.
func (d *Dir) Change(target string) error {
	shown := target
	switch {
	case target == "":
		if d.home == "" {
			return shellerr.New(shellerr.IoFailure, "cd", "HOME not set")
		}
		target, shown = d.home, d.home
	case target == "-":
		if d.prev == "" {
			return shellerr.New(shellerr.IoFailure, "cd", "OLDPWD not set")
		}
		target, shown = d.prev, d.prev
	default:
		target = d.expandHome(target)
	}

	abs := d.Resolve(target)
	info, err := d.fs.Stat(abs)
	if err != nil {
		if shellerr.Classify(err) == shellerr.NotFound {
			return shellerr.FromOS("cd", shown, err)
		}
		return &shellerr.Error{Kind: shellerr.IoFailure, Op: "cd", Msg: shown + ": " + reason(err), Err: err}
	}
	if !info.IsDir() {
		return shellerr.FromOS("cd", shown, syscall.ENOTDIR)
	}
	if _, ok := d.fs.(*afero.OsFs); ok {
		if err := searchable(abs); err != nil {
			return &shellerr.Error{Kind: shellerr.IoFailure, Op: "cd", Msg: shown + ": " + reason(err), Err: err}
		}
	}

	d.prev, d.path = d.path, abs
	return nil
}

// Abbrev renders the working directory with the home prefix shown as "~"
func (d *Dir) Abbrev() string {
	return Abbreviate(d.path, d.home)
}

// Abbreviate replaces a leading home directory in path with "~"
func Abbreviate(path, home string) string {
	if home == "" || home == "/" {
		return path
	}
	home = filepath.Clean(home)
	if path == home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return path
}

func (d *Dir) expandHome(p string) string {
	if d.home == "" {
		return p
	}
	if p == "~" {
		return d.home
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return filepath.Join(d.home, rest)
	}
	return p
}

// reason is the OS reason text without the operation and path
func reason(err error) string {
	return shellerr.FromOS("", "", err).Error()
}
