package shell

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tympanix/gosh/internal/shellerr"
)

// Exit statuses for commands that could not be started
const (
	StatusNotFound      = 127
	StatusNotExecutable = 126
)

type Executor interface {
	Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error)
}

// IOBindings are the streams and directory a child runs with. A nil Stdin
// reads from the null device.
type IOBindings struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultExecutor runs programs found by LookupFunc and waits for them
type DefaultExecutor struct {
	LookupFunc func(name string) (string, error)
}

// Execute runs name to completion. A child that exits non-zero is not an
// error; its status is returned. Failures to start are *shellerr.Error
// values prefixed with name.
func (e *DefaultExecutor) Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error) {
	path, err := e.LookupFunc(name)
	if err != nil {
		return startStatus(err), err
	}

	externalCmd := exec.CommandContext(ctx, path, args...)
	externalCmd.Args = append([]string{name}, args...)
	externalCmd.Dir = io.Dir
	externalCmd.Stdin = io.Stdin
	externalCmd.Stdout = io.Stdout
	externalCmd.Stderr = io.Stderr

	if err := externalCmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				return 128 + int(status.Signal()), nil
			}
			return exitErr.ExitCode(), nil
		}
		se := &shellerr.Error{Kind: shellerr.Classify(err), Op: name, Err: err}
		return startStatus(se), se
	}
	return 0, nil
}

func startStatus(err error) int {
	if shellerr.KindOf(err) == shellerr.NotFound {
		return StatusNotFound
	}
	return StatusNotExecutable
}

// Lookup resolves a command name to an executable path. Names containing a
// slash are taken relative to the working directory; others are searched in
// PATH, where an empty entry means the working directory.
func (s *Shell) Lookup(name string) (string, error) {
	if strings.ContainsRune(name, '/') {
		p := s.dir.Resolve(name)
		info, err := s.ops.Fs().Stat(p)
		switch {
		case err != nil:
			return "", shellerr.FromOS(name, "", err)
		case info.IsDir():
			return "", shellerr.FromOS(name, "", syscall.EISDIR)
		case info.Mode()&0111 == 0:
			return "", shellerr.FromOS(name, "", fs.ErrPermission)
		}
		return p, nil
	}

	if name != "" {
		for _, dir := range s.cfg.PathDirs() {
			if dir == "" {
				dir = "."
			}
			pathToCheck := filepath.Join(s.dir.Resolve(dir), name)
			if info, err := s.ops.Fs().Stat(pathToCheck); err == nil {
				if info.Mode().IsRegular() && info.Mode()&0111 != 0 {
					return pathToCheck, nil
				}
			}
		}
	}
	return "", shellerr.New(shellerr.NotFound, name, "command not found")
}
