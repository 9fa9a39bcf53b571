package feed

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/docload/pkg/docload"
)

func readAll(t *testing.T, rd *Reader) []Line {
	t.Helper()
	var lines []Line
	for {
		line, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestReader_LinesInOrder(t *testing.T) {
	rd := NewReader(strings.NewReader("{\"a\":1}\n{\"a\":2}\r\n{\"a\":3}"), "test")

	lines := readAll(t, rd)

	require.Len(t, lines, 3)
	for i, want := range []string{`{"a":1}`, `{"a":2}`, `{"a":3}`} {
		assert.Equal(t, i+1, lines[i].Number)
		assert.Equal(t, want, string(lines[i].Bytes))
	}

	n, _ := rd.Stats()
	assert.Equal(t, 3, n)
}

func TestReader_BlankLinesAreYielded(t *testing.T) {
	rd := NewReader(strings.NewReader("a\n\nb\n"), "test")

	lines := readAll(t, rd)

	require.Len(t, lines, 3)
	assert.Equal(t, "", string(lines[1].Bytes))
	assert.Equal(t, 2, lines[1].Number)
}

func TestReader_EmptyInput(t *testing.T) {
	rd := NewReader(strings.NewReader(""), "test")

	_, err := rd.Next()
	assert.ErrorIs(t, err, io.EOF)

	_, err = rd.Next()
	assert.ErrorIs(t, err, io.EOF, "EOF is sticky")
}

func TestReader_LinesAreCopied(t *testing.T) {
	rd := NewReader(strings.NewReader("first\nsecond\n"), "test")

	first, err := rd.Next()
	require.NoError(t, err)
	_, err = rd.Next()
	require.NoError(t, err)

	assert.Equal(t, "first", string(first.Bytes))
}

func TestReader_LineTooLong(t *testing.T) {
	long := bytes.Repeat([]byte("x"), docload.MaxLineBytes+1)
	rd := NewReader(io.MultiReader(strings.NewReader("ok\n"), bytes.NewReader(long)), "test")

	_, err := rd.Next()
	require.NoError(t, err)

	_, err = rd.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, docload.ErrMalformedRecord)

	var recErr *docload.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Line)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.ndjson"))

	require.Error(t, err)
	assert.ErrorIs(t, err, docload.ErrFileOpen)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	rd, err := Open(path)
	require.NoError(t, err)
	defer rd.Close()

	assert.Equal(t, path, rd.Name())
	assert.Len(t, readAll(t, rd), 2)
}

func TestOpen_GzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.ndjson.gz")
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("one\ntwo\nthree\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	rd, err := Open(path)
	require.NoError(t, err)
	defer rd.Close()

	lines := readAll(t, rd)
	require.Len(t, lines, 3)
	assert.Equal(t, "three", string(lines[2].Bytes))
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.ndjson.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, docload.ErrFileOpen)
}
