package main

import (
	"github.com/lexico-lang/lexico/analyzer"
	"github.com/lexico-lang/lexico/parser"
	"github.com/lexico-lang/lexico/tac"
	"github.com/lexico-lang/lexico/tacgen"
	"github.com/spf13/cobra"
)

// compile runs the front end (parse + analyze) and lowers to TAC,
// rendering any diagnostics through errors.Reporter and returning
// errSilent when it already did so.
func compile(cmd *cobra.Command, src, filename string) (*tac.Program, error) {
	p := parser.New(src)
	prog := p.Parse()
	if p.Errors().HasErrors() {
		reportAndFail(cmd, src, filename, p.Errors())
		return nil, errSilent
	}
	semErrs := analyzer.Analyze(prog)
	if semErrs.HasErrors() {
		reportAndFail(cmd, src, filename, semErrs)
		return nil, errSilent
	}
	return tacgen.Generate(prog), nil
}
