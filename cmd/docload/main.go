package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/vvka-141/docload/internal/cli"
	"github.com/vvka-141/docload/pkg/docload"
)

func main() {
	os.Exit(run(cli.Execute, os.Stderr))
}

// run executes the command tree and maps its outcome to a process exit code.
// A panic during a load exits with ExitPanic after printing the stack.
func run(execute func() error, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "panic: %v\n%s\n", r, debug.Stack())
			code = docload.ExitPanic
		}
	}()

	if err := execute(); err != nil {
		return docload.ExitCodeForError(err)
	}
	return docload.ExitSuccess
}
