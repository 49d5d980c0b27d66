// Package fsops implements the filesystem built-ins over an afero.Fs.
//
// Every operation takes the working directory explicitly and resolves
// relative operands against it. Errors are *shellerr.Error values whose
// messages mention operands as the user typed them.
package fsops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/util"
)

// Ops runs filesystem operations against fs
type Ops struct {
	fs                afero.Fs
	logger            util.Logger
	showProgress      bool
	progressThreshold int64
}

type Option func(*Ops)

// WithLogger routes verbose diagnostics to logger
func WithLogger(logger util.Logger) Option {
	return func(o *Ops) {
		o.logger = logger
	}
}

// WithProgress shows a progress bar for copies of files at least threshold
// bytes large when show is set
func WithProgress(show bool, threshold int64) Option {
	return func(o *Ops) {
		o.showProgress = show
		o.progressThreshold = threshold
	}
}

func New(fs afero.Fs, opts ...Option) *Ops {
	o := &Ops{
		fs:     fs,
		logger: util.NewQuietLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fs returns the underlying filesystem
func (o *Ops) Fs() afero.Fs {
	return o.fs
}

// Resolve makes p absolute relative to dir
func Resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

func (o *Ops) lstat(name string) (os.FileInfo, error) {
	if l, ok := o.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return o.fs.Stat(name)
}

// sameFile reports whether info and the file at name, as seen by stat, are
// one file. Filesystems without device and inode data never match.
func sameFile(info os.FileInfo, name string, stat func(string) (os.FileInfo, error)) bool {
	other, err := stat(name)
	return err == nil && os.SameFile(info, other)
}

func hasTrailingSlash(p string) bool {
	return len(p) > 1 && os.IsPathSeparator(p[len(p)-1])
}

func (o *Ops) isDir(name string) bool {
	info, err := o.fs.Stat(name)
	return err == nil && info.IsDir()
}

// within reports whether child is parent or lies below it
func within(child, parent string) bool {
	if child == parent {
		return true
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
