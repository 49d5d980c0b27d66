package fsops

import (
	"fmt"
	"os"

	"github.com/tympanix/gosh/internal/shellerr"
)

// WriteFile replaces the content of name with content, creating it when
// missing. Any failure is reported as an IoFailure for op.
func (o *Ops) WriteFile(op, cwd, name, content string) error {
	return o.writeFile(op, cwd, name, content, os.O_TRUNC)
}

// AppendFile adds content to the end of name, creating it when missing
func (o *Ops) AppendFile(op, cwd, name, content string) error {
	return o.writeFile(op, cwd, name, content, os.O_APPEND)
}

func (o *Ops) writeFile(op, cwd, name, content string, mode int) error {
	abs := Resolve(cwd, name)

	f, err := o.fs.OpenFile(abs, os.O_WRONLY|os.O_CREATE|mode, 0644)
	if err != nil {
		return writeFailure(op, name, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return writeFailure(op, name, err)
	}
	if err := f.Close(); err != nil {
		return writeFailure(op, name, err)
	}
	return nil
}

func writeFailure(op, name string, err error) error {
	e := shellerr.Wrap(op, fmt.Sprintf("cannot write '%s'", name), err)
	e.Kind = shellerr.IoFailure
	return e
}
