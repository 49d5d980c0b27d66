package shell

import (
	"fmt"
	"path/filepath"

	"github.com/tympanix/gosh/internal/fsops"
	"github.com/tympanix/gosh/internal/output"
	"github.com/tympanix/gosh/internal/shellerr"
	"github.com/tympanix/gosh/internal/util"
)

func (s *Shell) ls(args []string) error {
	var opts fsops.ListOptions
	fs := newFlagSet("ls", "[-a] [-l] [-F] [-I pattern] [path...]", s.Out)
	fs.BoolVarP(&opts.ShowHidden, "all", "a", false, "do not ignore entries starting with .")
	fs.BoolVarP(&opts.Long, "long", "l", false, "use a long listing format")
	fs.BoolVarP(&opts.Classify, "classify", "F", false, "append indicator (one of */=|) to entries")
	fs.StringArrayVarP(&opts.Ignore, "ignore", "I", nil, "do not list entries matching the glob pattern")
	paths, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var first error
	shown := 0
	for _, p := range paths {
		listing, err := s.ops.List(s.dir.Get(), p, opts)
		if err != nil {
			first = s.report(first, err)
			continue
		}
		if len(paths) > 1 && listing.IsDir {
			if shown > 0 {
				fmt.Fprintln(s.Out)
			}
			fmt.Fprintf(s.Out, "%s:\n", p)
		}
		shown++
		if err := listing.Write(s.Out, s.now()); err != nil {
			return shellerr.Wrap("ls", "write error", err)
		}
	}
	return first
}

func (s *Shell) cat(args []string) error {
	var decompress bool
	fs := newFlagSet("cat", "[-z] file...", s.Out)
	fs.BoolVarP(&decompress, "decompress", "z", false, "decompress gzip or zstd input")
	paths, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return shellerr.MissingOperandf("cat", "missing file operand")
	}

	var first error
	for _, p := range paths {
		first = s.report(first, s.catFile(p, decompress))
	}
	return first
}

func (s *Shell) catFile(p string, decompress bool) error {
	lines, err := s.ops.OpenLines(s.dir.Get(), p, decompress)
	if err != nil {
		return err
	}
	defer lines.Close()
	if decompress {
		s.logger.VerbosePrintf("cat: %s is %s\n", p, lines.Format)
	}

	for line, err := range lines.All() {
		if err != nil {
			return err
		}
		fmt.Fprintln(s.Out, line)
	}
	return nil
}

func (s *Shell) cp(args []string) error {
	var verbose, recursive bool
	fs := newFlagSet("cp", "[-v] source... dest", s.Out)
	fs.BoolVarP(&verbose, "verbose", "v", false, "explain what is being done")
	fs.BoolVarP(&recursive, "recursive", "r", false, "copy directories recursively (always on)")
	fs.BoolVarP(&recursive, "Recursive", "R", false, "same as -r")
	fs.MarkHidden("Recursive")
	operands, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	var tracker *output.CopyTracker
	if verbose {
		tracker = output.NewCopyTracker(output.ActionCopy, util.NewLogger(s.Out))
		defer tracker.PrintSummary()
	}
	return s.transfer("cp", operands, func(src, dst string) error {
		return s.ops.Copy(s.dir.Get(), src, dst, fsops.CopyOptions{Tracker: tracker})
	})
}

func (s *Shell) mv(args []string) error {
	var verbose bool
	fs := newFlagSet("mv", "[-v] source... dest", s.Out)
	fs.BoolVarP(&verbose, "verbose", "v", false, "explain what is being done")
	operands, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	var tracker *output.CopyTracker
	if verbose {
		tracker = output.NewCopyTracker(output.ActionMove, util.NewLogger(s.Out))
		defer tracker.PrintSummary()
	}
	return s.transfer("mv", operands, func(src, dst string) error {
		return s.ops.Move(s.dir.Get(), src, dst, tracker)
	})
}

// transfer checks cp/mv operands and applies fn to each source. With more
// than two operands the last must be an existing directory.
func (s *Shell) transfer(op string, operands []string, fn func(src, dst string) error) error {
	switch len(operands) {
	case 0:
		return shellerr.MissingOperandf(op, "missing file operand")
	case 1:
		return shellerr.MissingOperandf(op, "missing destination file operand after '%s'", operands[0])
	}

	sources, dst := operands[:len(operands)-1], operands[len(operands)-1]
	if len(sources) > 1 {
		if info, err := s.ops.Fs().Stat(s.dir.Resolve(dst)); err != nil || !info.IsDir() {
			return shellerr.Newf(shellerr.IoFailure, op, "target '%s' is not a directory", dst)
		}
	}

	var first error
	for _, src := range sources {
		first = s.report(first, fn(src, dst))
	}
	return first
}

func (s *Shell) rm(args []string) error {
	var opts fsops.RemoveOptions
	var upper bool
	fs := newFlagSet("rm", "[-r] [-f] path...", s.Out)
	fs.BoolVarP(&opts.Recursive, "recursive", "r", false, "remove directories and their contents recursively")
	fs.BoolVarP(&upper, "Recursive", "R", false, "same as -r")
	fs.BoolVarP(&opts.Force, "force", "f", false, "ignore nonexistent files")
	fs.MarkHidden("Recursive")
	paths, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	opts.Recursive = opts.Recursive || upper
	opts.Report = s.printError

	if len(paths) == 0 {
		if opts.Force {
			return nil
		}
		return shellerr.MissingOperandf("rm", "missing operand")
	}
	if err := s.ops.Remove(s.dir.Get(), paths, opts); err != nil {
		return reported{err}
	}
	return nil
}

func (s *Shell) mkdir(args []string) error {
	var parents bool
	fs := newFlagSet("mkdir", "[-p] directory...", s.Out)
	fs.BoolVarP(&parents, "parents", "p", false, "make parent directories as needed")
	paths, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return shellerr.MissingOperandf("mkdir", "missing operand")
	}

	var first error
	for _, p := range paths {
		if err := s.ops.Mkdir(s.dir.Get(), p, parents); err != nil {
			first = s.report(first, err)
			continue
		}
		s.logger.VerbosePrintf("mkdir: created directory '%s'\n", filepath.Clean(p))
	}
	return first
}

// reported marks an error already printed to the error channel
type reported struct {
	error
}

func (r reported) Unwrap() error {
	return r.error
}

// report prints err as it happens and keeps the first failure as the
// command's result
func (s *Shell) report(first, err error) error {
	if err == nil {
		return first
	}
	s.printError(err)
	if first == nil {
		return reported{err}
	}
	return first
}
