package main

import (
	"fmt"

	"github.com/lexico-lang/lexico/optimize"
	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "optimize [file]",
		Short: "Emit the optimized three-address-code listing for a Lexico source file",
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
			fmt.Fprintln(cmd.OutOrStdout(), optimize.Run(code).String())
			return nil
		},
	}
}
