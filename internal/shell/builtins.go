package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tympanix/gosh/internal/shellerr"
)

// Builtin identifies a command implemented by the shell itself
type Builtin int

const (
	External Builtin = iota
	Cd
	Pwd
	Ls
	Cat
	Cp
	Mv
	Rm
	Mkdir
	Echo
	Exit
)

var builtinNames = [...]string{
	External: "external",
	Cd:       "cd",
	Pwd:      "pwd",
	Ls:       "ls",
	Cat:      "cat",
	Cp:       "cp",
	Mv:       "mv",
	Rm:       "rm",
	Mkdir:    "mkdir",
	Echo:     "echo",
	Exit:     "exit",
}

func (b Builtin) String() string {
	if b >= 0 && int(b) < len(builtinNames) {
		return builtinNames[b]
	}
	return fmt.Sprintf("Builtin(%d)", int(b))
}

// builtinTable maps command names onto built-in kinds
func builtinTable() map[string]Builtin {
	table := make(map[string]Builtin, len(builtinNames)-1)
	for b := Cd; b <= Exit; b++ {
		table[b.String()] = b
	}
	return table
}

// ExitError asks the loop to terminate with Code
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// Command is a parsed and expanded command line
type Command struct {
	Name string
	Args []Token
}

func (s *Shell) runBuiltin(b Builtin, cmd *Command) error {
	args := Texts(cmd.Args)
	switch b {
	case Cd:
		return s.cd(args)
	case Pwd:
		return s.pwd()
	case Ls:
		return s.ls(args)
	case Cat:
		return s.cat(args)
	case Cp:
		return s.cp(args)
	case Mv:
		return s.mv(args)
	case Rm:
		return s.rm(args)
	case Mkdir:
		return s.mkdir(args)
	case Echo:
		return s.echo(cmd.Args)
	case Exit:
		return s.exit(args)
	}
	return fmt.Errorf("%s: not a builtin", cmd.Name)
}

func (s *Shell) cd(args []string) error {
	if len(args) > 1 {
		return shellerr.New(shellerr.MissingOperand, "cd", "too many arguments")
	}
	target := ""
	if len(args) == 1 {
		target = args[0]
	}
	if err := s.dir.Change(target); err != nil {
		return err
	}
	if target == "-" {
		fmt.Fprintln(s.Out, s.dir.Get())
	}
	s.logger.VerbosePrintf("cd: now in %s\n", s.dir.Get())
	return nil
}

func (s *Shell) pwd() error {
	fmt.Fprintln(s.Out, s.dir.Get())
	return nil
}

// echo prints its words, or writes them to the file after an unquoted ">"
// (replace) or ">>" (append). With several redirections every target is
// opened in order and only the last one receives the words.
func (s *Shell) echo(args []Token) error {
	var words []string
	var targets []Token
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if !isRedirect(tok) {
			words = append(words, tok.Text)
			continue
		}
		if i+1 >= len(args) {
			return shellerr.Newf(shellerr.MissingOperand, "echo", "missing file operand after '%s'", tok.Text)
		}
		targets = append(targets, tok, args[i+1])
		i++
	}

	content := strings.Join(words, " ") + "\n"
	if len(targets) == 0 {
		_, err := fmt.Fprint(s.Out, content)
		return err
	}

	for i := 0; i < len(targets); i += 2 {
		op, name := targets[i].Text, targets[i+1].Text
		body := ""
		if i == len(targets)-2 {
			body = content
		}
		write := s.ops.WriteFile
		if op == ">>" {
			write = s.ops.AppendFile
		}
		if err := write("echo", s.dir.Get(), name, body); err != nil {
			return err
		}
	}
	return nil
}

func isRedirect(tok Token) bool {
	return !tok.Quoted && (tok.Text == ">" || tok.Text == ">>")
}

func (s *Shell) exit(args []string) error {
	switch len(args) {
	case 0:
		return &ExitError{Code: 0}
	case 1:
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return shellerr.Newf(shellerr.InvalidOption, "exit", "%s: numeric argument required", args[0])
		}
		return &ExitError{Code: code & 0xff}
	default:
		return shellerr.New(shellerr.InvalidOption, "exit", "too many arguments")
	}
}
