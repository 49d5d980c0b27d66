package fsops

import (
	"fmt"
	"path/filepath"
	"syscall"

	"github.com/tympanix/gosh/internal/shellerr"
)

const dirPerm = 0755

// Mkdir creates p, or with parents the whole chain of missing ancestors.
// Without parents an existing leaf fails with AlreadyExists.
func (o *Ops) Mkdir(cwd, p string, parents bool) error {
	abs := Resolve(cwd, p)
	msg := fmt.Sprintf("cannot create directory '%s'", p)

	if parents {
		if info, err := o.fs.Stat(abs); err == nil && !info.IsDir() {
			return shellerr.Wrap("mkdir", msg, syscall.EEXIST)
		}
		if err := o.fs.MkdirAll(abs, dirPerm); err != nil {
			return shellerr.Wrap("mkdir", msg, err)
		}
		return nil
	}

	if _, err := o.lstat(abs); err == nil {
		return shellerr.Wrap("mkdir", msg, syscall.EEXIST)
	}
	parent, err := o.fs.Stat(filepath.Dir(abs))
	if err != nil {
		return shellerr.Wrap("mkdir", msg, err)
	}
	if !parent.IsDir() {
		return shellerr.Wrap("mkdir", msg, syscall.ENOTDIR)
	}
	if err := o.fs.Mkdir(abs, dirPerm); err != nil {
		return shellerr.Wrap("mkdir", msg, err)
	}
	return nil
}
