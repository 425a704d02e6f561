// Command lexico drives the Lexico compiler pipeline: lexing,
// parsing, semantic analysis, TAC generation, optimization,
// interpretation, and pseudo-assembly emission, each exposed as a
// cobra subcommand in the idiom of opal-lang-opal's CLIHarness.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// errSilent signals a subcommand already rendered its own diagnostics
// (via errors.Reporter) and main should just exit non-zero.
var errSilent = errors.New("")

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if err != errSilent {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lexico",
		Short:         "Lexico compiler pipeline driver",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTokensCmd(),
		newParseCmd(),
		newAnalyzeCmd(),
		newTacCmd(),
		newOptimizeCmd(),
		newRunCmd(),
		newAsmCmd(),
		newReplCmd(),
	)
	return root
}

// readSource reads source text from a file argument, or from stdin
// when no argument is given.
func readSource(args []string) (string, string, error) {
	if len(args) == 0 {
		data, err := readAllStdin()
		return data, "<stdin>", err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", args[0], fmt.Errorf("leyendo '%s': %w", args[0], err)
	}
	return string(data), args[0], nil
}
