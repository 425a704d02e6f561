package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTacCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tac [file]",
		Short: "Emit the three-address-code listing for a Lexico source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, filename, err := readSource(args)
			if err != nil {
				return err
			}
			code, err := compile(cmd, src, filename)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code.String())
			return nil
		},
	}
}
