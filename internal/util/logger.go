package util

import (
	"fmt"
	"io"
)

// Logger carries shell diagnostics. User-facing command output never goes
// through it.
type Logger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
	VerbosePrintf(format string, v ...interface{})
	VerbosePrintln(v ...interface{})
}

// SimpleLogger writes to the given writer, prefixing each line with prefix
type SimpleLogger struct {
	writer  io.Writer
	prefix  string
	verbose bool
}

// NewLogger creates a logger that drops verbose lines
func NewLogger(writer io.Writer) Logger {
	return &SimpleLogger{writer: writer}
}

// NewVerboseLogger creates a logger with verbose mode enabled. Verbose lines
// are prefixed with "+ " like shell xtrace output.
func NewVerboseLogger(writer io.Writer) Logger {
	return &SimpleLogger{writer: writer, prefix: "+ ", verbose: true}
}

// NewQuietLogger discards everything
func NewQuietLogger() Logger {
	return &SimpleLogger{writer: io.Discard}
}

func (l *SimpleLogger) Printf(format string, v ...interface{}) {
	fmt.Fprintf(l.writer, format, v...)
}

func (l *SimpleLogger) Println(v ...interface{}) {
	fmt.Fprintln(l.writer, v...)
}

func (l *SimpleLogger) VerbosePrintf(format string, v ...interface{}) {
	if l.verbose {
		fmt.Fprint(l.writer, l.prefix)
		fmt.Fprintf(l.writer, format, v...)
	}
}

func (l *SimpleLogger) VerbosePrintln(v ...interface{}) {
	if l.verbose {
		fmt.Fprint(l.writer, l.prefix)
		fmt.Fprintln(l.writer, v...)
	}
}
