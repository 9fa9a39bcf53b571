package feed

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/docload/pkg/docload"
)

const initialBufferSize = 512 * 1024

// Line is one raw feed line without its line terminator.
type Line struct {
	Number int
	Bytes  []byte
}

// Reader streams lines from a feed.
type Reader struct {
	name   string
	closer io.Closer
	gz     *gzip.Reader
	sc     *bufio.Scanner
	line   int
	bytes  int64
	err    error
}

// Open opens the feed at path. It fails with docload.ErrFileOpen when the
// file cannot be opened or is not valid gzip.
func Open(path string) (*Reader, error) {
	if path == docload.StdinPath {
		return newReader(io.NopCloser(os.Stdin), "stdin", false)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", path, docload.ErrFileOpen, err)
	}
	return newReader(f, path, strings.HasSuffix(path, ".gz"))
}

// NewReader streams lines from r. name is used in error messages.
func NewReader(r io.Reader, name string) *Reader {
	rd, _ := newReader(io.NopCloser(r), name, false)
	return rd
}

func newReader(rc io.ReadCloser, name string, gzipped bool) (*Reader, error) {
	rd := &Reader{name: name, closer: rc}

	var src io.Reader = rc
	if gzipped {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			if cerr := rc.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
			return nil, fmt.Errorf("open %s: %w: %w", name, docload.ErrFileOpen, err)
		}
		rd.gz = gz
		src = gz
	}

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, initialBufferSize), docload.MaxLineBytes)
	rd.sc = sc
	return rd, nil
}

// Next returns the next line; io.EOF when the feed is exhausted.
// The returned bytes are owned by the caller.
func (rd *Reader) Next() (Line, error) {
	if rd.err != nil {
		return Line{}, rd.err
	}
	if !rd.sc.Scan() {
		if err := rd.sc.Err(); err != nil {
			rd.err = rd.scanError(err)
			return Line{}, rd.err
		}
		rd.err = io.EOF
		return Line{}, io.EOF
	}

	rd.line++
	raw := rd.sc.Bytes()
	cp := make([]byte, len(raw))
	copy(cp, raw)
	rd.bytes += int64(len(raw) + 1)

	return Line{Number: rd.line, Bytes: cp}, nil
}

func (rd *Reader) scanError(err error) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return &docload.RecordError{
			Line: rd.line + 1,
			Err:  fmt.Errorf("line exceeds %d bytes: %w", docload.MaxLineBytes, docload.ErrMalformedRecord),
		}
	}
	return fmt.Errorf("read %s after line %d: %w", rd.name, rd.line, err)
}

// Name identifies the feed in messages.
func (rd *Reader) Name() string {
	return rd.name
}

// Stats returns the number of lines read and bytes consumed so far.
func (rd *Reader) Stats() (lines int, bytes int64) {
	return rd.line, rd.bytes
}

// Close closes the underlying file.
func (rd *Reader) Close() error {
	var first error
	if rd.gz != nil {
		if err := rd.gz.Close(); err != nil {
			first = err
		}
	}
	if rd.closer != nil {
		if err := rd.closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
