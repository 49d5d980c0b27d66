package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/output"
	"github.com/tympanix/gosh/internal/progress"
	"github.com/tympanix/gosh/internal/shellerr"
)

// CopyOptions tunes Copy
type CopyOptions struct {
	// Tracker receives one record per placed file; nil disables cp -v output
	Tracker *output.CopyTracker
}

// Copy copies src to dst. A directory source is copied recursively to the
// literal dst path. A file source lands inside dst when dst is an existing
// directory. A failure partway through a tree leaves the already copied
// entries in place.
func (o *Ops) Copy(cwd, src, dst string, opts CopyOptions) error {
	return o.copyPath("cp", cwd, src, dst, opts)
}

func (o *Ops) copyPath(op, cwd, src, dst string, opts CopyOptions) error {
	srcAbs := Resolve(cwd, src)
	dstAbs := Resolve(cwd, dst)

	info, err := o.fs.Stat(srcAbs)
	if err != nil {
		return shellerr.Wrap(op, fmt.Sprintf("cannot stat '%s'", src), err)
	}

	if info.IsDir() {
		if within(dstAbs, srcAbs) {
			return shellerr.Newf(shellerr.IoFailure, op, "cannot copy a directory, '%s', into itself, '%s'", src, dst)
		}
		return o.copyTree(op, src, srcAbs, dst, dstAbs, opts)
	}

	target, display := dstAbs, dst
	switch {
	case o.isDir(dstAbs):
		target = filepath.Join(dstAbs, filepath.Base(srcAbs))
		display = filepath.Join(dst, filepath.Base(srcAbs))
	case hasTrailingSlash(dst):
		return shellerr.Wrap(op, fmt.Sprintf("cannot create regular file '%s'", dst), syscall.ENOTDIR)
	}
	if target == srcAbs || sameFile(info, target, o.fs.Stat) {
		return shellerr.Newf(shellerr.IoFailure, op, "'%s' and '%s' are the same file", src, display)
	}

	return o.copyFile(op, src, srcAbs, display, target, info, 1, 1, opts)
}

type treeEntry struct {
	rel  string
	info os.FileInfo
}

func (o *Ops) copyTree(op, src, srcAbs, dst, dstAbs string, opts CopyOptions) error {
	var entries []treeEntry
	files := 0
	err := afero.Walk(o.fs, srcAbs, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcAbs, p)
		if err != nil {
			return err
		}
		entries = append(entries, treeEntry{rel: rel, info: info})
		if info.Mode().IsRegular() {
			files++
		}
		return nil
	})
	if err != nil {
		return shellerr.Wrap(op, fmt.Sprintf("cannot read directory '%s'", src), err)
	}

	n := 0
	for _, e := range entries {
		from := filepath.Join(srcAbs, e.rel)
		to := filepath.Join(dstAbs, e.rel)
		shownFrom := filepath.Join(src, e.rel)
		shownTo := filepath.Join(dst, e.rel)

		switch {
		case e.info.IsDir():
			if err := o.fs.MkdirAll(to, e.info.Mode().Perm()|0700); err != nil {
				return shellerr.Wrap(op, fmt.Sprintf("cannot create directory '%s'", shownTo), err)
			}
		case e.info.Mode()&os.ModeSymlink != 0:
			if err := o.copySymlink(op, from, to, shownTo); err != nil {
				return err
			}
		default:
			n++
			if err := o.copyFile(op, shownFrom, from, shownTo, to, e.info, n, files, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func (o *Ops) copySymlink(op, from, to, shownTo string) error {
	reader, canRead := o.fs.(afero.LinkReader)
	linker, canLink := o.fs.(afero.Linker)
	if !canRead || !canLink {
		info, err := o.fs.Stat(from)
		if err != nil {
			return shellerr.Wrap(op, fmt.Sprintf("cannot stat '%s'", from), err)
		}
		return o.copyFile(op, from, from, shownTo, to, info, 1, 1, CopyOptions{})
	}

	target, err := reader.ReadlinkIfPossible(from)
	if err != nil {
		return shellerr.Wrap(op, fmt.Sprintf("cannot read symbolic link '%s'", from), err)
	}
	if err := linker.SymlinkIfPossible(target, to); err != nil {
		return shellerr.Wrap(op, fmt.Sprintf("cannot create symbolic link '%s'", shownTo), err)
	}
	return nil
}

func (o *Ops) copyFile(op, shownSrc, src, shownDst, dst string, info os.FileInfo, current, total int, opts CopyOptions) error {
	err := o.copyContent(op, shownSrc, src, shownDst, dst, info, current, total)

	if opts.Tracker != nil {
		record := output.FileCopy{Source: shownSrc, Dest: shownDst, Size: info.Size(), Status: output.CopyStatusSuccess}
		if err != nil {
			record.Status = output.CopyStatusFailed
			record.Error = err
		}
		opts.Tracker.RecordFile(record)
	}
	return err
}

func (o *Ops) copyContent(op, shownSrc, src, shownDst, dst string, info os.FileInfo, current, total int) error {
	in, err := o.fs.Open(src)
	if err != nil {
		return shellerr.Wrap(op, fmt.Sprintf("cannot open '%s' for reading", shownSrc), err)
	}
	defer in.Close()

	out, err := o.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return shellerr.Wrap(op, fmt.Sprintf("cannot create regular file '%s'", shownDst), err)
	}

	var w io.Writer = out
	if o.showProgress && info.Size() >= o.progressThreshold {
		bar := progress.NewProgressBar(info.Size(), "Copying "+filepath.Base(src), current, total, true)
		defer bar.Finish()
		w = io.MultiWriter(out, bar)
	}

	if _, err := io.Copy(w, in); err != nil {
		out.Close()
		return shellerr.Wrap(op, fmt.Sprintf("error copying '%s' to '%s'", shownSrc, shownDst), err)
	}
	if err := out.Close(); err != nil {
		return shellerr.Wrap(op, fmt.Sprintf("error writing '%s'", shownDst), err)
	}
	o.logger.VerbosePrintf("%s: copied %s (%d bytes)\n", op, shownDst, info.Size())
	return nil
}
