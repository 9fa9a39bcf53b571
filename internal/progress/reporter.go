// Package progress reports how many records a load has written.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/docload/pkg/docload"
)

// Writer prints "<count> done" after each written record.
// Write errors are ignored: progress output must never fail a load.
type Writer struct {
	out io.Writer
}

// NewWriter returns a reporter that writes to stdout.
func NewWriter() *Writer {
	return NewWriterTo(os.Stdout)
}

// NewWriterTo returns a reporter that writes to w.
func NewWriterTo(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Done implements docload.ProgressReporter.
func (w *Writer) Done(count int) {
	_, _ = fmt.Fprintf(w.out, "%d done\n", count)
}

// Quiet discards progress.
type Quiet struct{}

// Done implements docload.ProgressReporter.
func (Quiet) Done(int) {}

// New picks the reporter for the --quiet setting.
func New(quiet bool) docload.ProgressReporter {
	if quiet {
		return Quiet{}
	}
	return NewWriter()
}
