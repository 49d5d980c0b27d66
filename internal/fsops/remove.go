package fsops

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/shellerr"
)

// RemoveOptions mirrors rm's flags
type RemoveOptions struct {
	Recursive bool
	// Force suppresses NotFound failures only
	Force bool
	// Report, when set, receives every failure as it happens
	Report func(error)
}

// Remove deletes every path independently. All paths are attempted and the
// first failure is returned. Later failures go to Report, or to the verbose
// log without one.
func (o *Ops) Remove(cwd string, paths []string, opts RemoveOptions) error {
	var first error
	for _, p := range paths {
		err := o.removeOne(cwd, p, opts.Recursive)
		if err == nil {
			continue
		}
		if opts.Force && shellerr.KindOf(err) == shellerr.NotFound {
			o.logger.VerbosePrintf("%v (ignored)\n", err)
			continue
		}
		if opts.Report != nil {
			opts.Report(err)
		}
		if first == nil {
			first = err
		} else if opts.Report == nil {
			o.logger.VerbosePrintln(err)
		}
	}
	return first
}

func (o *Ops) removeOne(cwd, p string, recursive bool) error {
	switch filepath.Base(filepath.Clean(p)) {
	case ".", "..":
		return shellerr.Newf(shellerr.IoFailure, "rm", "refusing to remove '.' or '..' directory: skipping '%s'", p)
	}

	abs := Resolve(cwd, p)
	info, err := o.lstat(abs)
	if err != nil {
		return shellerr.Wrap("rm", fmt.Sprintf("cannot remove '%s'", p), err)
	}

	if info.IsDir() {
		if recursive {
			if err := o.fs.RemoveAll(abs); err != nil {
				return shellerr.Wrap("rm", fmt.Sprintf("cannot remove '%s'", p), err)
			}
			return nil
		}
		entries, err := afero.ReadDir(o.fs, abs)
		if err != nil {
			return shellerr.Wrap("rm", fmt.Sprintf("cannot remove '%s'", p), err)
		}
		if len(entries) > 0 {
			return &shellerr.Error{
				Kind: shellerr.DirectoryNotEmpty,
				Op:   "rm",
				Msg:  fmt.Sprintf("cannot remove '%s': Directory not empty", p),
			}
		}
	}

	if err := o.fs.Remove(abs); err != nil {
		return shellerr.Wrap("rm", fmt.Sprintf("cannot remove '%s'", p), err)
	}
	return nil
}
