package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/tagline/lex"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <line>...",
		Short: "Print the tokens of a single line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			for _, tok := range lex.Tokenize(line) {
				fmt.Printf("%-8s %s\n", tok.Kind, tok)
				for _, p := range tok.Params {
					fmt.Printf("         %s\n", p)
				}
				for _, e := range tok.Errors {
					fmt.Printf("         error %s\n", e)
				}
			}
			return nil
		},
	}
}
