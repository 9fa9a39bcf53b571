package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether w is a terminal a human is looking at.
//
// Returns false if:
//   - w is not an *os.File or not a terminal (redirected, piped)
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
func IsInteractive(w io.Writer) bool {
	if os.Getenv("CI") != "" || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
