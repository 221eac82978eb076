package common

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func IsInteractiveTerminal(command *cobra.Command) bool {
	in, ok := command.InOrStdin().(*os.File)
	if !ok || in == nil {
		return false
	}
	out, ok := command.OutOrStdout().(*os.File)
	if !ok || out == nil {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// IsTerminalWriter reports whether w writes to a terminal.
func IsTerminalWriter(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && file != nil && term.IsTerminal(int(file.Fd()))
}
