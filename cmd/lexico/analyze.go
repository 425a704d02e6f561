package main

import (
	"fmt"

	"github.com/lexico-lang/lexico/analyzer"
	"github.com/lexico-lang/lexico/parser"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Parse and semantically analyze a Lexico source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, filename, err := readSource(args)
			if err != nil {
				return err
			}
			p := parser.New(src)
			prog := p.Parse()
			if p.Errors().HasErrors() {
				reportAndFail(cmd, src, filename, p.Errors())
				return errSilent
			}
			semErrs := analyzer.Analyze(prog)
			if semErrs.HasErrors() {
				reportAndFail(cmd, src, filename, semErrs)
				return errSilent
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no semantic errors\n", filename)
			return nil
		},
	}
}
