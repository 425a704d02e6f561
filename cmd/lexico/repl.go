package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/lexico-lang/lexico/analyzer"
	"github.com/lexico-lang/lexico/errors"
	"github.com/lexico-lang/lexico/interp"
	"github.com/lexico-lang/lexico/optimize"
	"github.com/lexico-lang/lexico/parser"
	"github.com/lexico-lang/lexico/tacgen"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive Lexico session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runREPL(cmd)
			return nil
		},
	}
}

// runREPL re-runs the whole accumulated session buffer on every
// complete entry (a blank line ends an indented block, matching
// Python's own REPL convention) and prints only the output lines the
// buffer didn't already produce. Variables therefore persist across
// entries the same way the interpreter's shared variable map persists
// across a function call and return.
func runREPL(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Lexico REPL")
	fmt.Fprintf(out, "Version %s\n", version)
	fmt.Fprintln(out, "Type 'exit' or 'quit' to leave, blank line to run an entry.")
	fmt.Fprintln(out)

	var buffer strings.Builder
	var printedLines int
	scanner := bufio.NewScanner(cmd.InOrStdin())

	fmt.Fprint(out, "lexico> ")
	var pending strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if pending.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if trimmed == "" && pending.Len() > 0 {
			if n, ok := evalBuffer(cmd, buffer.String()+pending.String(), printedLines); ok {
				buffer.WriteString(pending.String())
				printedLines = n
			}
			pending.Reset()
			fmt.Fprint(out, "lexico> ")
			continue
		}
		if trimmed == "" {
			fmt.Fprint(out, "lexico> ")
			continue
		}

		pending.WriteString(line)
		pending.WriteString("\n")
		fmt.Fprint(out, "   ... ")
	}

	if pending.Len() > 0 {
		evalBuffer(cmd, buffer.String()+pending.String(), printedLines)
	}
}

// evalBuffer runs src through the full pipeline and prints only the
// PRINT output lines beyond alreadyPrinted, returning the new total and
// whether src ran cleanly. A front-end or runtime error is reported
// without advancing the printed-line count, and runREPL then leaves the
// failing entry out of the session buffer.
func evalBuffer(cmd *cobra.Command, src string, alreadyPrinted int) (int, bool) {
	out := cmd.OutOrStdout()

	p := parser.New(src)
	prog := p.Parse()
	if p.Errors().HasErrors() {
		fmt.Fprintln(cmd.ErrOrStderr(), p.Errors().String())
		return alreadyPrinted, false
	}
	if semErrs := analyzer.Analyze(prog); semErrs.HasErrors() {
		fmt.Fprintln(cmd.ErrOrStderr(), semErrs.String())
		return alreadyPrinted, false
	}

	code := optimize.Run(tacgen.Generate(prog))
	it := interp.New()
	it.Stdin = cmd.InOrStdin()
	it.Stdout = out
	result, err := it.Run(code)
	if err != nil {
		if rerr, ok := err.(*errors.Error); ok {
			fmt.Fprintln(cmd.ErrOrStderr(), rerr.String())
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return alreadyPrinted, false
	}

	var lines []string
	if result != "" {
		lines = strings.Split(result, "\n")
	}
	for i := alreadyPrinted; i < len(lines); i++ {
		fmt.Fprintln(out, lines[i])
	}
	return len(lines), true
}
