package lexer

import (
	"testing"

	"github.com/lexico-lang/lexico/token"
	"github.com/stretchr/testify/require"
)

func allTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	l := New(src)
	toks, err := l.All()
	require.NoError(t, err)
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestEndsWithEOF(t *testing.T) {
	types := allTypes(t, "x = 1\n")
	require.Equal(t, token.EOF, types[len(types)-1])
}

func TestSimpleAssignmentAndPrint(t *testing.T) {
	l := New("x = 1 + 2\nprint(x)\n")
	toks, err := l.All()
	require.NoError(t, err)

	want := []token.Type{
		token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT, token.NEWLINE,
		token.PRINT, token.LPAREN, token.IDENT, token.RPAREN, token.NEWLINE,
		token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equalf(t, w, toks[i].Type, "token %d", i)
	}
}

func TestIndentationProducesBlock(t *testing.T) {
	src := "if x:\n    print(1)\nprint(2)\n"
	types := allTypes(t, src)

	require.Contains(t, types, token.INDENT)
	require.Contains(t, types, token.DEDENT)

	// INDENT must come before the first nested PRINT, and a DEDENT
	// must appear before the trailing top-level PRINT.
	var indentIdx, dedentIdx int = -1, -1
	for i, typ := range types {
		if typ == token.INDENT && indentIdx == -1 {
			indentIdx = i
		}
		if typ == token.DEDENT && dedentIdx == -1 {
			dedentIdx = i
		}
	}
	require.True(t, indentIdx >= 0 && dedentIdx > indentIdx)
}

func TestMismatchedDedentIsError(t *testing.T) {
	src := "if x:\n    print(1)\n  print(2)\n"
	l := New(src)
	_, err := l.All()
	require.Error(t, err)
}

func TestBlankAndCommentLinesProduceNoLayoutEvents(t *testing.T) {
	src := "x = 1\n\n# a comment\nprint(x)\n"
	types := allTypes(t, src)
	for _, typ := range types {
		require.NotEqual(t, token.INDENT, typ)
		require.NotEqual(t, token.DEDENT, typ)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\t\"c\""` + "\n")
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, token.STRING, tok.Type)
	require.Equal(t, "a\nb\t\"c\"", tok.Literal)
}

func TestUnterminatedStringIsLexerError(t *testing.T) {
	l := New(`x = "abc`)
	_, err := l.All()
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
}

func TestIntegerVsFloat(t *testing.T) {
	l := New("1 1.5\n")
	tok1, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, token.INT, tok1.Type)
	tok2, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, token.FLOAT, tok2.Type)
}

func TestKeywordsRecognizedAfterLexemeCompletion(t *testing.T) {
	l := New("forest = 1\nfor x in range(1):\n    pass\n")
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, token.IDENT, tok.Type)
	require.Equal(t, "forest", tok.Literal)
}

func TestBracketsSuppressNewline(t *testing.T) {
	src := "x = [1,\n2]\nprint(x)\n"
	types := allTypes(t, src)
	// Only two NEWLINEs: after the list assignment and after print.
	count := 0
	for _, typ := range types {
		if typ == token.NEWLINE {
			count++
		}
	}
	require.Equal(t, 2, count)
}
