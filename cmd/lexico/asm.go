package main

import (
	"fmt"

	"github.com/lexico-lang/lexico/asm"
	"github.com/lexico-lang/lexico/optimize"
	"github.com/spf13/cobra"
)

func newAsmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asm [file]",
		Short: "Emit the register-machine pseudo-assembly listing for a Lexico source file",
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
			fmt.Fprintln(cmd.OutOrStdout(), asm.New().Generate(optimize.Run(code)))
			return nil
		},
	}
}
