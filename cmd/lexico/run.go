package main

import (
	"fmt"

	"github.com/lexico-lang/lexico/errors"
	"github.com/lexico-lang/lexico/interp"
	"github.com/lexico-lang/lexico/optimize"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var skipOptimize bool
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile and execute a Lexico source file",
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
			if !skipOptimize {
				code = optimize.Run(code)
			}

			it := interp.New()
			it.Stdin = cmd.InOrStdin()
			it.Stdout = cmd.OutOrStdout()
			out, runErr := it.Run(code)
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			if runErr != nil {
				if rerr, ok := runErr.(*errors.Error); ok {
					fmt.Fprintln(cmd.ErrOrStderr(), rerr.String())
				} else {
					fmt.Fprintln(cmd.ErrOrStderr(), runErr)
				}
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipOptimize, "no-optimize", false, "run unoptimized TAC")
	return cmd
}
