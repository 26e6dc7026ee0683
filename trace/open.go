package trace

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"

	"github.com/pkg/errors"
)

var (
	bzip2Magic = []byte("BZh")
	gzipMagic  = []byte{0x1f, 0x8b}
)

// Open opens the trace at path for reading. An empty path or "-" reads
// standard input. bzip2 and gzip input is decompressed transparently.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return Decompress(io.NopCloser(os.Stdin))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening trace")
	}

	rc, err := Decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

// Decompress sniffs the first bytes of rc and wraps it in a decompressor
// when it holds bzip2 or gzip data. Closing the result closes rc.
func Decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(bzip2Magic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.Wrap(err, "reading trace header")
	}

	switch {
	case bytes.HasPrefix(head, bzip2Magic):
		return &readCloser{Reader: bzip2.NewReader(br), closer: rc}, nil
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "opening gzip trace")
		}
		return &readCloser{Reader: zr, closer: rc}, nil
	default:
		return &readCloser{Reader: br, closer: rc}, nil
	}
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error {
	return r.closer.Close()
}
