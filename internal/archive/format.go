package archive

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format represents the compression format of a stream
type Format string

const (
	FormatNone Format = "none"
	FormatGzip Format = "gzip"
	FormatZstd Format = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// String returns the string representation of the compression format
func (f Format) String() string {
	return string(f)
}

// Detect peeks at the head of r and reports its compression format without
// consuming any bytes
func Detect(r *bufio.Reader) (Format, error) {
	head, err := r.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return FormatNone, err
	}
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return FormatZstd, nil
	case bytes.HasPrefix(head, gzipMagic):
		return FormatGzip, nil
	default:
		return FormatNone, nil
	}
}

// NewReader returns a reader yielding the decompressed content of r. Input
// that is not gzip or zstd passes through unchanged.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	br := bufio.NewReader(r)
	format, err := Detect(br)
	if err != nil {
		return nil, FormatNone, err
	}

	switch format {
	case FormatGzip:
		gzipReader, err := gzip.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzipReader, format, nil
	case FormatZstd:
		zstdReader, err := zstd.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zstdReader.IOReadCloser(), format, nil
	default:
		return io.NopCloser(br), format, nil
	}
}
