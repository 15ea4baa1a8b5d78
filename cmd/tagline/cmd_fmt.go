package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var fmtList bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a document in canonical form",
		Long: `Print a document in canonical form to stdout.

If no file is provided, reads the document from stdin.

Use -w to overwrite the file in place (requires a file argument).
Use -l to only report whether the file differs from its canonical form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}

			doc, source, err := parseInput(args)
			if err != nil {
				return err
			}
			output := doc.Canon()

			if fmtList {
				if output != string(source) {
					fmt.Println(doc.Name())
				}
				return nil
			}
			if fmtOverwrite {
				return os.WriteFile(args[0], []byte(output), 0644)
			}
			_, err = os.Stdout.WriteString(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVarP(&fmtList, "list", "l", false, "print the name of the file if its formatting differs")

	return cmd
}
