package asm

import (
	"strings"
	"testing"

	"github.com/lexico-lang/lexico/parser"
	"github.com/lexico-lang/lexico/tacgen"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src)
	prog := p.Parse()
	require.False(t, p.Errors().HasErrors(), "unexpected parse errors: %s", p.Errors().String())
	return New().Generate(tacgen.Generate(prog))
}

func TestDataSectionDeclaresNonTemporaryAssignTargets(t *testing.T) {
	out := generate(t, "x = 1\n")
	require.Contains(t, out, ".data")
	require.Contains(t, out, "x: .word 0")
}

func TestTemporariesNeverEnterTheDataSection(t *testing.T) {
	out := generate(t, "x = 1 + 2\n")
	require.NotContains(t, out, "t0: .word 0")
}

func TestArithmeticOpcodesReappearAsMnemonics(t *testing.T) {
	out := generate(t, "x = 1 + 2\ny = x - 1\n")
	require.Contains(t, out, "    ADD")
	require.Contains(t, out, "    SUB")
}

func TestNamedVariableLoadsAreStackPointerRelative(t *testing.T) {
	out := generate(t, "x = 1\ny = x + 1\n")
	require.Contains(t, out, "LDR")
	require.True(t, strings.Contains(out, "[SP, #"), "expected a stack-pointer-relative operand, got:\n%s", out)
}

func TestFunctionLabelReappearsInEmittedText(t *testing.T) {
	src := "def add(a, b):\n    return a + b\nprint(add(1, 2))\n"
	out := generate(t, src)
	require.Contains(t, out, "func_add:")
}

func TestComparisonLowersToCompareAndConditionalMoves(t *testing.T) {
	out := generate(t, "x = 1 < 2\n")
	require.Contains(t, out, "    CMP")
	require.Contains(t, out, "    MOVLT")
	require.Contains(t, out, "    MOVNLT")
}

func TestPrintLowersToRuntimeCall(t *testing.T) {
	out := generate(t, "print(1)\n")
	require.Contains(t, out, "BL _print_int")
}

func TestListBuiltinsLowerToRuntimeCalls(t *testing.T) {
	out := generate(t, "xs = []\nxs.append(1)\nprint(xs[0])\n")
	require.Contains(t, out, "BL _list_create")
	require.Contains(t, out, "BL _list_append")
	require.Contains(t, out, "BL _list_get")
}

func TestLenCallLowersToListLenRuntimeCall(t *testing.T) {
	out := generate(t, "xs = [1, 2]\nn = len(xs)\n")
	require.Contains(t, out, "BL _list_len")
}

func TestProgramAlwaysEndsWithExitEpilogue(t *testing.T) {
	out := generate(t, "print(1)\n")
	require.True(t, strings.HasSuffix(out, "    MOV R0, #0\n    B _exit"))
}

func TestGenerateIsDeterministicAcrossCalls(t *testing.T) {
	src := "x = 1\ny = x + 2\nprint(y)\n"
	p := parser.New(src)
	prog := p.Parse()
	require.False(t, p.Errors().HasErrors())
	code := tacgen.Generate(prog)

	g := New()
	first := g.Generate(code)
	second := g.Generate(code)
	require.Equal(t, first, second)
}

func TestAssignOfTemporaryIntoPlainVariableStores(t *testing.T) {
	out := generate(t, "x = 1 + 2\n")
	lines := strings.Split(out, "\n")
	var sawStoreAfterAdd bool
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "ADD") && i+1 < len(lines) {
			if strings.Contains(lines[i+1], "STR") {
				sawStoreAfterAdd = true
			}
		}
	}
	require.True(t, sawStoreAfterAdd, "expected a STR spill immediately after the ADD producing x, got:\n%s", out)
}
