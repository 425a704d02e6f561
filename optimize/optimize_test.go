package optimize

import (
	"testing"

	"github.com/lexico-lang/lexico/interp"
	"github.com/lexico-lang/lexico/parser"
	"github.com/lexico-lang/lexico/tac"
	"github.com/lexico-lang/lexico/tacgen"
	"github.com/stretchr/testify/require"
)

func listing(p *tac.Program) []string {
	lines := make([]string, len(p.Instructions))
	for i, instr := range p.Instructions {
		lines[i] = instr.String()
	}
	return lines
}

func TestConstantFoldsArithmetic(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ADD, Arg1: "1", Arg2: "2", Result: "t0"},
		{Op: tac.ASSIGN, Arg1: "t0", Result: "x"},
		{Op: tac.PRINT, Arg1: "x"},
	}}
	out := Run(in)
	require.Equal(t, []string{"x = 3", "print(x)"}, listing(out))
}

func TestDivisionByLiteralZeroIsLeftUnchanged(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.DIV, Arg1: "1", Arg2: "0", Result: "t0"},
		{Op: tac.PRINT, Arg1: "t0"},
	}}
	out := Run(in)
	require.Equal(t, []string{"t0 = 1 / 0", "print(t0)"}, listing(out))
}

func TestCopyPropagationInlinesLiteralIntoUse(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ASSIGN, Arg1: "5", Result: "t0"},
		{Op: tac.PRINT, Arg1: "t0"},
	}}
	out := Run(in)
	require.Equal(t, []string{"print(5)"}, listing(out))
}

func TestCopyPropagationDoesNotTouchVariables(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ASSIGN, Arg1: "5", Result: "x"},
		{Op: tac.PRINT, Arg1: "x"},
	}}
	out := Run(in)
	require.Equal(t, []string{"x = 5", "print(x)"}, listing(out))
}

func TestDeadTempEliminationDropsUnusedComputation(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ADD, Arg1: "a", Arg2: "b", Result: "t0"},
		{Op: tac.PRINT, Arg1: "a"},
	}}
	out := Run(in)
	require.Equal(t, []string{"print(a)"}, listing(out))
}

func TestCallIsNeverEliminatedEvenWithUnusedResult(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.CALL, Arg1: "f", Arg2: "1", Result: "t0"},
	}}
	out := Run(in)
	require.Equal(t, []string{"t0 = f(1)"}, listing(out))
}

func TestOptimizerNeverGrowsInstructionCount(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ADD, Arg1: "1", Arg2: "2", Result: "t0"},
		{Op: tac.MUL, Arg1: "t0", Arg2: "3", Result: "t1"},
		{Op: tac.ASSIGN, Arg1: "t1", Result: "x"},
		{Op: tac.PRINT, Arg1: "x"},
	}}
	out := Run(in)
	require.LessOrEqual(t, len(out.Instructions), len(in.Instructions))
	require.Equal(t, []string{"x = 9", "print(x)"}, listing(out))
}

func TestIdempotent(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ADD, Arg1: "1", Arg2: "2", Result: "t0"},
		{Op: tac.ASSIGN, Arg1: "t0", Result: "x"},
		{Op: tac.PRINT, Arg1: "x"},
	}}
	once := Run(in)
	twice := Run(once)
	require.Equal(t, listing(once), listing(twice))
}

// TestDeadTempEliminationKeepsTempsReadByListSet pins the fix for a
// real bug: LIST_SET stores its value operand in Result (Arg1 is the
// container), so a temp appearing only there is a read, not a dead
// write, and must not be pruned.
func TestDeadTempEliminationKeepsTempsReadByListSet(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ADD, Arg1: "a", Arg2: "b", Result: "t0"},
		{Op: tac.LIST_SET, Arg1: "lst", Arg2: "0", Result: "t0"},
	}}
	out := Run(in)
	require.Equal(t, []string{"t0 = a + b", "lst[0] = t0"}, listing(out))
}

// TestDeadTempEliminationKeepsTempsReadByDictSet is the DICT_SET
// analogue of the above.
func TestDeadTempEliminationKeepsTempsReadByDictSet(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ADD, Arg1: "a", Arg2: "b", Result: "t0"},
		{Op: tac.DICT_SET, Arg1: "d", Arg2: `"k"`, Result: "t0"},
	}}
	out := Run(in)
	require.Equal(t, []string{"t0 = a + b", `d["k"] = t0`}, listing(out))
}

func runThroughPipeline(t *testing.T, src string) (string, error) {
	t.Helper()
	p := parser.New(src)
	prog := p.Parse()
	require.False(t, p.Errors().HasErrors(), "unexpected parse errors: %s", p.Errors().String())
	code := Run(tacgen.Generate(prog))
	return interp.New().Run(code)
}

// TestOptimizedIndexAssignmentOfNonLiteralExprMatchesUnoptimized covers
// the exact regression the maintainer flagged: an IndexAssignment
// whose RHS is a non-literal expression must still resolve its
// producing temporary after optimize.Run, not just in the raw TAC.
func TestOptimizedIndexAssignmentOfNonLiteralExprMatchesUnoptimized(t *testing.T) {
	out, err := runThroughPipeline(t, "lst = [0]\na = 2\nb = 3\nlst[0] = a + b\nprint(lst[0])\n")
	require.NoError(t, err)
	require.Equal(t, "5", out)
}

// TestOptimizedDictAssignmentOfNonLiteralExprMatchesUnoptimized is the
// dict-target analogue: an index assignment into a dict also lowers to
// LIST_SET, which keeps its value operand in Result.
func TestOptimizedDictAssignmentOfNonLiteralExprMatchesUnoptimized(t *testing.T) {
	out, err := runThroughPipeline(t, "d = {}\na = 2\nb = 3\nd[\"k\"] = a + b\nprint(d[\"k\"])\n")
	require.NoError(t, err)
	require.Equal(t, "5", out)
}

// TestConstantFoldsBooleanComparison pins spec.md §4.5's "numeric or
// boolean literals" folding rule: a comparison between two boolean
// literals must fold just like a numeric one.
func TestConstantFoldsBooleanComparison(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.EQ, Arg1: "True", Arg2: "False", Result: "t0"},
		{Op: tac.PRINT, Arg1: "t0"},
	}}
	out := Run(in)
	require.Equal(t, []string{"print(False)"}, listing(out))
}

// TestConstantFoldsBooleanArithmetic covers a boolean operand feeding
// arithmetic folding, matching interp/arith.go's own True/False-as-1/0
// coercion at runtime.
func TestConstantFoldsBooleanArithmetic(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.ADD, Arg1: "True", Arg2: "True", Result: "t0"},
		{Op: tac.PRINT, Arg1: "t0"},
	}}
	out := Run(in)
	require.Equal(t, []string{"print(2)"}, listing(out))
}

func TestFoldedComparisonFeedsIfFalse(t *testing.T) {
	in := &tac.Program{Instructions: []tac.Instruction{
		{Op: tac.LT, Arg1: "1", Arg2: "2", Result: "t0"},
		{Op: tac.IF_FALSE, Arg1: "t0", Arg2: "L0"},
		{Op: tac.PRINT, Arg1: "1"},
		{Op: tac.LABEL, Arg1: "L0"},
	}}
	out := Run(in)
	require.Equal(t, []string{
		"if_false True goto L0",
		"print(1)",
		"L0:",
	}, listing(out))
}
