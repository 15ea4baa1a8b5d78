package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLocCmd() *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:   "loc <file> <path>",
		Short: "Print the subtree at a path",
		Long: `Print the subtree found at a path such as "server.port" or
"items.(2)" in canonical form.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := parseInput(args[:1])
			if err != nil {
				return err
			}
			n, err := doc.Root().Loc(args[1])
			if err != nil {
				return err
			}
			if showPath {
				fmt.Printf("%s:%d: %s\n", doc.Name(), n.Line, n.Path())
				return nil
			}
			_, err = os.Stdout.WriteString(n.Canon())
			return err
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "print the file, line and canonical path instead of the subtree")

	return cmd
}
