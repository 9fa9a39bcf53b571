package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriter_Done(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf)

	for i := 1; i <= 3; i++ {
		w.Done(i)
	}

	assert.Equal(t, "1 done\n2 done\n3 done\n", buf.String())
}

func TestWriter_IgnoresWriteErrors(t *testing.T) {
	w := NewWriterTo(failingWriter{})
	assert.NotPanics(t, func() { w.Done(1) })
}

func TestNew(t *testing.T) {
	assert.IsType(t, Quiet{}, New(true))
	assert.IsType(t, &Writer{}, New(false))
}
