package fsops

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/tympanix/gosh/internal/archive"
	"github.com/tympanix/gosh/internal/shellerr"
)

// Lines is a forward-only reader of a file's text lines
type Lines struct {
	path   string
	file   afero.File
	body   io.ReadCloser
	reader *bufio.Reader
	Format archive.Format
}

// OpenLines opens path for line reading. With decompress set, gzip and zstd
// content is detected by magic bytes and decoded on the fly.
func (o *Ops) OpenLines(cwd, path string, decompress bool) (*Lines, error) {
	abs := Resolve(cwd, path)

	info, err := o.fs.Stat(abs)
	if err != nil {
		return nil, shellerr.FromOS("cat", path, err)
	}
	if info.IsDir() {
		return nil, shellerr.FromOS("cat", path, syscall.EISDIR)
	}

	file, err := o.fs.Open(abs)
	if err != nil {
		return nil, shellerr.FromOS("cat", path, err)
	}

	l := &Lines{path: path, file: file, body: file, Format: archive.FormatNone}
	if decompress {
		body, format, err := archive.NewReader(file)
		if err != nil {
			file.Close()
			return nil, shellerr.FromOS("cat", path, err)
		}
		l.body = body
		l.Format = format
	}
	l.reader = bufio.NewReader(l.body)
	return l, nil
}

// All yields each line without its terminator, invalid UTF-8 replaced by
// U+FFFD. A read failure is yielded once as an IoFailure and ends the
// sequence.
func (l *Lines) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			line, err := l.reader.ReadString('\n')
			if line != "" {
				line = strings.TrimSuffix(line, "\n")
				line = strings.TrimSuffix(line, "\r")
				if !yield(lossy(line), nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", &shellerr.Error{Kind: shellerr.IoFailure, Op: "cat", Path: l.path, Err: err})
				return
			}
		}
	}
}

// lossy replaces each byte that does not start a valid UTF-8 sequence with
// U+FFFD
func lossy(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(s[:size])
		}
		s = s[size:]
	}
	return b.String()
}

// Close releases the file
func (l *Lines) Close() error {
	if l.body != l.file {
		l.body.Close()
	}
	return l.file.Close()
}
