package main

import (
	"fmt"

	"github.com/lexico-lang/lexico/lexer"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream for a Lexico source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, filename, err := readSource(args)
			if err != nil {
				return err
			}
			l := lexer.New(src)
			toks, err := l.All()
			if err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}
			for _, tok := range toks {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-10s %q\n", tok.Line, tok.Type, tok.Literal)
			}
			return nil
		},
	}
}
