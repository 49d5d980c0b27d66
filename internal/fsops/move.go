package fsops

import (
	"errors"
	"fmt"
	"path/filepath"
	"syscall"

	"github.com/tympanix/gosh/internal/output"
	"github.com/tympanix/gosh/internal/shellerr"
)

// Move renames src to dst, placing it inside dst when dst is an existing
// directory. Renames across filesystems fall back to copy and remove.
func (o *Ops) Move(cwd, src, dst string, tracker *output.CopyTracker) error {
	srcAbs := Resolve(cwd, src)
	dstAbs := Resolve(cwd, dst)

	info, err := o.lstat(srcAbs)
	if err != nil {
		return shellerr.Wrap("mv", fmt.Sprintf("cannot stat '%s'", src), err)
	}

	target, display := dstAbs, dst
	switch {
	case o.isDir(dstAbs):
		target = filepath.Join(dstAbs, filepath.Base(srcAbs))
		display = filepath.Join(dst, filepath.Base(srcAbs))
	case hasTrailingSlash(dst) && !info.IsDir():
		return shellerr.Wrap("mv", fmt.Sprintf("cannot move '%s' to '%s'", src, dst), syscall.ENOTDIR)
	}

	if target == srcAbs || o.moveOntoItself(srcAbs, target) {
		return shellerr.Newf(shellerr.IoFailure, "mv", "'%s' and '%s' are the same file", src, display)
	}
	if info.IsDir() && within(target, srcAbs) {
		return shellerr.Newf(shellerr.IoFailure, "mv", "cannot move '%s' to a subdirectory of itself, '%s'", src, display)
	}

	err = o.fs.Rename(srcAbs, target)
	if errors.Is(err, syscall.EXDEV) {
		o.logger.VerbosePrintf("mv: %s crosses devices, copying\n", src)
		err = o.moveByCopy(src, srcAbs, target)
	}
	if err != nil {
		if tracker != nil {
			tracker.RecordFile(output.FileCopy{Source: src, Dest: display, Status: output.CopyStatusFailed, Error: err})
		}
		return shellerr.Wrap("mv", fmt.Sprintf("cannot move '%s' to '%s'", src, display), err)
	}

	if tracker != nil {
		tracker.RecordFile(output.FileCopy{Source: src, Dest: display, Size: info.Size(), Status: output.CopyStatusSuccess})
	}
	return nil
}

// moveOntoItself compares what a symlink source points at with the target
// itself, so renaming one link over another link stays allowed.
func (o *Ops) moveOntoItself(srcAbs, target string) bool {
	resolved, err := o.fs.Stat(srcAbs)
	return err == nil && sameFile(resolved, target, o.lstat)
}

func (o *Ops) moveByCopy(src, srcAbs, target string) error {
	if err := o.copyPath("mv", "/", srcAbs, target, CopyOptions{}); err != nil {
		return err
	}
	if err := o.fs.RemoveAll(srcAbs); err != nil {
		return shellerr.Wrap("mv", fmt.Sprintf("cannot remove '%s'", src), err)
	}
	return nil
}
