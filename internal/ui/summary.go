package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/vvka-141/docload/pkg/docload"
)

// SummaryPrinter writes the one-line outcome of a run.
// Output is styled only when the destination is an interactive terminal.
type SummaryPrinter struct {
	w      io.Writer
	styled bool
}

// NewSummaryPrinter creates a printer for w, detecting whether to style.
func NewSummaryPrinter(w io.Writer) *SummaryPrinter {
	return &SummaryPrinter{w: w, styled: IsInteractive(w)}
}

// Loaded reports a committed load.
func (p *SummaryPrinter) Loaded(s docload.Summary) {
	msg := fmt.Sprintf("%s loaded %d record(s) from %s", SymbolCheck, s.Records, sourceName(s.InputPath))
	elapsed := fmt.Sprintf("(%s)", s.Duration.Round(time.Millisecond))
	if p.styled {
		fmt.Fprintf(p.w, "%s %s\n", SuccessStyle.Render(msg), MutedStyle.Render(elapsed))
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", msg, elapsed)
}

func sourceName(path string) string {
	if path == docload.StdinPath {
		return "stdin"
	}
	return path
}
