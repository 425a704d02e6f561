package main

import (
	"fmt"

	"github.com/lexico-lang/lexico/errors"
	"github.com/lexico-lang/lexico/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a Lexico source file and report errors",
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
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d statement(s) parsed, no errors\n", filename, len(prog.Statements))
			return nil
		},
	}
}

// reportAndFail renders a *errors.List the way the teacher's
// diagnostics are shown, through errors.Reporter.
func reportAndFail(cmd *cobra.Command, src, filename string, errs *errors.List) {
	r := errors.NewReporter(src, filename)
	for _, e := range errs.Errors() {
		r.Add(e)
	}
	fmt.Fprint(cmd.ErrOrStderr(), r.String())
}
