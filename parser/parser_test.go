package parser

import (
	"testing"

	"github.com/lexico-lang/lexico/ast"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src)
	prog := p.Parse()
	require.False(t, p.Errors().HasErrors(), "unexpected parse errors: %s", p.Errors().String())
	return prog
}

func TestParsesAssignmentAndPrint(t *testing.T) {
	prog := parseOK(t, "x = 1 + 2\nprint(x)\n")
	require.Len(t, prog.Statements, 2)

	assign, ok := prog.Statements[0].(*ast.Assignment)
	require.True(t, ok)
	require.Equal(t, "x", assign.Name)
	bin, ok := assign.Expr.(*ast.BinaryOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)

	_, ok = prog.Statements[1].(*ast.Print)
	require.True(t, ok)
}

func TestParsesIfElifElse(t *testing.T) {
	src := "if x < 1:\n    print(1)\nelif x < 2:\n    print(2)\nelse:\n    print(3)\n"
	prog := parseOK(t, src)
	require.Len(t, prog.Statements, 1)
	stmt, ok := prog.Statements[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, stmt.Elifs, 1)
	require.NotNil(t, stmt.Else)
}

func TestParsesForRangeSetsIsRange(t *testing.T) {
	prog := parseOK(t, "for i in range(10):\n    print(i)\n")
	stmt, ok := prog.Statements[0].(*ast.For)
	require.True(t, ok)
	require.True(t, stmt.IsRange)
	require.Equal(t, "i", stmt.Name)
}

func TestParsesForOverList(t *testing.T) {
	prog := parseOK(t, "xs = [1, 2]\nfor x in xs:\n    print(x)\n")
	stmt, ok := prog.Statements[1].(*ast.For)
	require.True(t, ok)
	require.False(t, stmt.IsRange)
}

func TestParsesFunctionDefAndReturn(t *testing.T) {
	prog := parseOK(t, "def add(a, b):\n    return a + b\n")
	fn, ok := prog.Statements[0].(*ast.Function)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, []string{"a", "b"}, fn.Params)
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	require.NotNil(t, ret.Expr)
}

func TestParsesBareReturn(t *testing.T) {
	prog := parseOK(t, "def f():\n    return\n")
	fn := prog.Statements[0].(*ast.Function)
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	require.True(t, ok)
	require.Nil(t, ret.Expr)
}

func TestParsesIndexAssignment(t *testing.T) {
	prog := parseOK(t, "xs = [1, 2]\nxs[0] = 5\n")
	stmt, ok := prog.Statements[1].(*ast.IndexAssignment)
	require.True(t, ok)
	ident, ok := stmt.Target.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "xs", ident.Name)
}

func TestParsesDottedMethodCall(t *testing.T) {
	prog := parseOK(t, "xs = [1]\nxs.append(2)\n")
	stmt, ok := prog.Statements[1].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.Expr.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "xs.append", call.Callee)
}

func TestParsesGlobalBreakContinueDel(t *testing.T) {
	src := "def f():\n    global x\n    while True:\n        if x:\n            break\n        continue\n    del x\n"
	prog := parseOK(t, src)
	fn := prog.Statements[0].(*ast.Function)
	_, ok := fn.Body.Statements[0].(*ast.Global)
	require.True(t, ok)
	_, ok = fn.Body.Statements[1].(*ast.While)
	require.True(t, ok)
	_, ok = fn.Body.Statements[2].(*ast.Del)
	require.True(t, ok)
}

func TestParsesDictAndIndex(t *testing.T) {
	prog := parseOK(t, "d = {1: 2}\ny = d[1]\n")
	assign := prog.Statements[0].(*ast.Assignment)
	_, ok := assign.Expr.(*ast.Dict)
	require.True(t, ok)
	read := prog.Statements[1].(*ast.Assignment)
	_, ok = read.Expr.(*ast.Index)
	require.True(t, ok)
}

func TestParsesTryExcept(t *testing.T) {
	src := "try:\n    x = 1\nexcept e:\n    print(e)\n"
	prog := parseOK(t, src)
	stmt, ok := prog.Statements[0].(*ast.Try)
	require.True(t, ok)
	require.Len(t, stmt.Excepts, 1)
	require.Equal(t, "e", stmt.Excepts[0].Name)
}

func TestSingleLineSuite(t *testing.T) {
	prog := parseOK(t, "if True: print(1)\n")
	stmt := prog.Statements[0].(*ast.If)
	require.Len(t, stmt.Then.Statements, 1)
}

func TestMalformedStatementRecordsError(t *testing.T) {
	p := New("x = = 1\n")
	p.Parse()
	require.True(t, p.Errors().HasErrors())
}
