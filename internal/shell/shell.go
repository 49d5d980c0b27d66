// Package shell is the interactive command loop: it reads a line, splits it
// into words, runs a built-in or an external program and reports the result.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/config"
	"github.com/tympanix/gosh/internal/fsops"
	"github.com/tympanix/gosh/internal/shellerr"
	"github.com/tympanix/gosh/internal/util"
	"github.com/tympanix/gosh/internal/workdir"
)

// Exit statuses of failed built-ins
const (
	StatusFailure = 1
	StatusUsage   = 2
)

// Options configures a Shell. Zero values select the real filesystem, the
// process working directory and a quiet logger.
type Options struct {
	Config   *config.Config
	Fs       afero.Fs
	Dir      *workdir.Dir
	Logger   util.Logger
	Executor Executor
	// Color enables the colored prompt and diagnostics
	Color bool
	// Quiet suppresses the prompt
	Quiet bool
	// ShowProgress draws progress bars for large copies
	ShowProgress bool
}

type Shell struct {
	in     *bufio.Reader
	Out    io.Writer
	Err    io.Writer
	cfg    *config.Config
	dir    *workdir.Dir
	ops    *fsops.Ops
	logger util.Logger
	parser *Parser

	builtins map[string]Builtin
	executor Executor

	promptColor *color.Color
	errColor    *color.Color
	quiet       bool
	status      int
	now         func() time.Time
}

func New(reader io.Reader, out, errw io.Writer, opts Options) (*Shell, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = util.NewQuietLogger()
	}
	dir := opts.Dir
	if dir == nil {
		var err error
		if dir, err = workdir.New(fs, cfg.Home); err != nil {
			return nil, err
		}
	}

	s := &Shell{
		in:          bufio.NewReader(reader),
		Out:         out,
		Err:         errw,
		cfg:         cfg,
		dir:         dir,
		logger:      logger,
		parser:      NewParser(),
		builtins:    builtinTable(),
		promptColor: color.New(color.FgBlue, color.Bold),
		errColor:    color.New(color.FgRed),
		quiet:       opts.Quiet,
		now:         time.Now,
	}
	s.ops = fsops.New(fs,
		fsops.WithLogger(logger),
		fsops.WithProgress(opts.ShowProgress, cfg.ProgressThreshold),
	)

	if opts.Color {
		s.promptColor.EnableColor()
		s.errColor.EnableColor()
	} else {
		s.promptColor.DisableColor()
		s.errColor.DisableColor()
	}

	s.executor = opts.Executor
	if s.executor == nil {
		s.executor = &DefaultExecutor{LookupFunc: s.Lookup}
	}
	return s, nil
}

// Dir returns the shell's working directory
func (s *Shell) Dir() *workdir.Dir {
	return s.dir
}

// Run reads and executes lines until end of input or exit. It returns the
// status the process should exit with.
func (s *Shell) Run(ctx context.Context) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return StatusFailure, err
		}
		s.printPrompt()

		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return StatusFailure, fmt.Errorf("failed to read input: %w", err)
		}

		if line != "" {
			if code, exited := s.Execute(ctx, line); exited {
				return code, nil
			}
		}

		if err != nil {
			if line == "" && !s.quiet {
				fmt.Fprintln(s.Out)
			}
			return 0, nil
		}
	}
}

// Execute runs one command line and returns its status. exited reports an
// exit built-in, in which case status is the requested exit code.
func (s *Shell) Execute(ctx context.Context, line string) (status int, exited bool) {
	if strings.TrimSpace(line) == "" {
		return s.status, false
	}

	tokens, err := s.parser.Parse(line)
	if err != nil {
		s.printError(fmt.Errorf("gosh: syntax error: %w", err))
		s.status = StatusUsage
		return s.status, false
	}
	if len(tokens) == 0 {
		return s.status, false
	}

	cmd := &Command{Name: tokens[0].Text, Args: s.expand(tokens[1:])}

	if b, ok := s.builtins[cmd.Name]; ok {
		s.logger.VerbosePrintf("%s %s\n", b, strings.Join(Texts(cmd.Args), " "))
		err := s.runBuiltin(b, cmd)

		var exit *ExitError
		if errors.As(err, &exit) {
			s.logger.VerbosePrintf("exit with status %d\n", exit.Code)
			return exit.Code, true
		}
		s.status = s.finish(err)
		return s.status, false
	}

	s.status = s.external(ctx, cmd)
	return s.status, false
}

func (s *Shell) external(ctx context.Context, cmd *Command) int {
	args := Texts(cmd.Args)
	s.logger.VerbosePrintf("exec %s %s\n", cmd.Name, strings.Join(args, " "))

	code, err := s.executor.Execute(ctx, cmd.Name, args, IOBindings{
		Dir:    s.dir.Get(),
		Stdout: s.Out,
		Stderr: s.Err,
	})
	if err != nil {
		s.printError(err)
	}
	return code
}

// finish prints a built-in's failure and maps it to a status
func (s *Shell) finish(err error) int {
	if err == nil || errors.Is(err, errUsageShown) {
		return 0
	}

	var r reported
	if !errors.As(err, &r) {
		s.printError(err)
	}

	switch shellerr.KindOf(err) {
	case shellerr.MissingOperand, shellerr.InvalidOption:
		return StatusUsage
	default:
		return StatusFailure
	}
}

func (s *Shell) printPrompt() {
	if s.quiet {
		return
	}
	s.promptColor.Fprint(s.Out, s.dir.Abbrev())
	fmt.Fprint(s.Out, " "+s.cfg.Prompt)
}

func (s *Shell) printError(err error) {
	s.errColor.Fprintln(s.Err, err.Error())
}
