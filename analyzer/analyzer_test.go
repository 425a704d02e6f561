package analyzer

import (
	"testing"

	"github.com/lexico-lang/lexico/parser"
	"github.com/stretchr/testify/require"
)

func TestUndefinedVariableReportsExactWording(t *testing.T) {
	p := parser.New("print(x)\n")
	prog := p.Parse()
	diags := Analyze(prog)
	require.True(t, diags.HasErrors())
	require.Equal(t, "Línea 1: variable 'x' no definida", diags.Errors()[0].String())
}

func TestAssignmentThenUseIsClean(t *testing.T) {
	p := parser.New("x = 1\nprint(x)\n")
	prog := p.Parse()
	diags := Analyze(prog)
	require.False(t, diags.HasErrors())
}

func TestAssignmentInUntakenBranchIsFlowInsensitive(t *testing.T) {
	// x is only assigned inside a branch that never runs, but
	// flow-insensitive analysis still considers it defined since it IS
	// assigned somewhere in the same scope.
	src := "if False:\n    x = 1\nprint(x)\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.False(t, diags.HasErrors())
}

func TestFunctionParametersAreDefined(t *testing.T) {
	src := "def add(a, b):\n    return a + b\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.False(t, diags.HasErrors())
}

func TestUndefinedInsideFunctionBodyIsCaught(t *testing.T) {
	src := "def f():\n    return y\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.True(t, diags.HasErrors())
}

func TestGlobalDeclarationLinksToOuterScope(t *testing.T) {
	src := "def setup():\n    global counter\n    counter = 0\n\ndef bump():\n    global counter\n    counter = counter + 1\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.False(t, diags.HasErrors())
}

func TestForwardReferencedFunctionResolves(t *testing.T) {
	src := "def main():\n    return helper()\n\ndef helper():\n    return 1\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.False(t, diags.HasErrors())
}

func TestCallToUndefinedFunctionIsReported(t *testing.T) {
	src := "def main():\n    return missing()\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.True(t, diags.HasErrors())
}

func TestDottedMethodCallChecksReceiver(t *testing.T) {
	src := "xs = [1]\nxs.append(2)\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.False(t, diags.HasErrors())
}

func TestForLoopVariableIsDefinedInBody(t *testing.T) {
	src := "for i in range(3):\n    print(i)\n"
	p := parser.New(src)
	prog := p.Parse()
	diags := Analyze(prog)
	require.False(t, diags.HasErrors())
}
