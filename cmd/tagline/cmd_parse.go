package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/tagline/format"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a document and dump the tree",
		Long: `Parse a document and dump the resulting tree to stdout.

If no file is provided, reads the document from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := parseInput(args)
			if err != nil {
				return err
			}

			encoder, err := format.New(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			if err := encoder.Encode(doc.Root()); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format ("+strings.Join(format.Names, ", ")+")")

	return cmd
}
