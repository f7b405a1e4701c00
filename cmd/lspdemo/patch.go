package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firi/sansio-lsp/lsp"
)

func newApplyPatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply-patch <unified-diff-file>",
		Short: "Print the TextEdits a unified diff would become, per file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			edits, err := lsp.UnifiedPatchToTextEdits(string(data))
			if err != nil {
				return err
			}
			for file, fileEdits := range edits {
				fmt.Printf("%s:\n", file)
				for _, e := range fileEdits {
					fmt.Printf("  [%d,%d)-[%d,%d): %q\n",
						e.Range.Start.Line, e.Range.Start.Character,
						e.Range.End.Line, e.Range.End.Character, e.NewText)
				}
			}
			return nil
		},
	}
	return cmd
}
