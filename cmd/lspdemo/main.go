// Command lspdemo owns every piece of transport and process lifecycle
// the sans-I/O client refuses to own: it spawns the language server,
// pipes its stdio, and pumps bytes through lsp.Client.Feed/Drain.
// Grounded on internal/lsp/client.go's NewClangdClient process-spawn
// code, generalized from a clangd-only argv to an arbitrary server
// command, and on the teacher's main.go for the overall CLI shape —
// rebuilt on cobra instead of a hand-rolled flag parser.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lspdemo",
		Short: "Drive a language server through the sans-io lsp client",
	}

	root.AddCommand(newRunCommand())
	root.AddCommand(newApplyPatchCommand())
	return root
}
