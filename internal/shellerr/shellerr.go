package shellerr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a recoverable built-in failure
type Kind int

const (
	IoFailure Kind = iota
	NotFound
	PermissionDenied
	AlreadyExists
	DirectoryNotEmpty
	MissingOperand
	InvalidOption
)

var kindNames = map[Kind]string{
	IoFailure:         "IoFailure",
	NotFound:          "NotFound",
	PermissionDenied:  "PermissionDenied",
	AlreadyExists:     "AlreadyExists",
	DirectoryNotEmpty: "DirectoryNotEmpty",
	MissingOperand:    "MissingOperand",
	InvalidOption:     "InvalidOption",
}

// String returns the name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is matching against a kind
var (
	ErrIoFailure         = &Error{Kind: IoFailure}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrPermissionDenied  = &Error{Kind: PermissionDenied}
	ErrAlreadyExists     = &Error{Kind: AlreadyExists}
	ErrDirectoryNotEmpty = &Error{Kind: DirectoryNotEmpty}
	ErrMissingOperand    = &Error{Kind: MissingOperand}
	ErrInvalidOption     = &Error{Kind: InvalidOption}
)

// Error is a typed built-in failure. Op is the command name the message is
// prefixed with.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.detail()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) detail() string {
	reason := describe(e.Kind, e.Err)
	if e.Path == "" {
		return reason
	}
	return fmt.Sprintf("%s: %s", e.Path, reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is an *Error of the same kind carrying no
// op, which is how the package sentinels are shaped.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Path == "" && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

// New creates an error with an explicit message
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates an error with a formatted message
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// MissingOperandf is shorthand for the common arity failure
func MissingOperandf(op, format string, args ...interface{}) *Error {
	return Newf(MissingOperand, op, format, args...)
}

// FromOS classifies err returned by an OS-level call on path
func FromOS(op, path string, err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Kind: Classify(err), Op: op, Path: path, Err: err}
}

// Wrap classifies err like FromOS but renders msg as the detail, keeping the
// OS reason at the end: "<op>: <msg>: <reason>".
func Wrap(op, msg string, err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	kind := Classify(err)
	return &Error{Kind: kind, Op: op, Msg: msg + ": " + describe(kind, err), Err: err}
}

// KindOf returns the kind of err, IoFailure for foreign errors
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return Classify(err)
}

// Classify maps an OS error onto the taxonomy
func Classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, syscall.ENOTEMPTY):
		return DirectoryNotEmpty
	case errors.Is(err, fs.ErrExist):
		return AlreadyExists
	default:
		return IoFailure
	}
}

func describe(kind Kind, err error) string {
	switch kind {
	case NotFound:
		return "No such file or directory"
	case PermissionDenied:
		return "Permission denied"
	case AlreadyExists:
		return "File exists"
	case DirectoryNotEmpty:
		return "Directory not empty"
	}
	if err == nil {
		return kind.String()
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return osReason(pe.Err)
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return osReason(le.Err)
	}
	return osReason(err)
}

// osReason capitalizes errno text the way coreutils prints it
func osReason(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		s := errno.Error()
		if s != "" {
			r, size := utf8.DecodeRuneInString(s)
			return string(unicode.ToUpper(r)) + s[size:]
		}
	}
	return err.Error()
}
