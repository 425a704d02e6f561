// Package parser implements a recursive-descent parser over the
// indentation-delimited grammar: statements separated by NEWLINE,
// blocks opened by INDENT and closed by DEDENT.
package parser

import (
	"fmt"
	"strings"

	"github.com/lexico-lang/lexico/ast"
	"github.com/lexico-lang/lexico/errors"
	"github.com/lexico-lang/lexico/lexer"
	"github.com/lexico-lang/lexico/token"
)

// Parser consumes a token stream and builds an ast.Program, collecting
// every syntax error it encounters rather than stopping at the first.
type Parser struct {
	lex *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errs *errors.List
}

// New creates a Parser over src, priming the two-token lookahead
// window. A lexical error surfacing during priming is recorded like
// any other parse error.
func New(src string) *Parser {
	p := &Parser{lex: lexer.New(src), errs: errors.NewList()}
	p.advance()
	p.advance()
	return p
}

// Errors returns every diagnostic recorded during parsing.
func (p *Parser) Errors() *errors.List { return p.errs }

func (p *Parser) advance() {
	p.curToken = p.peekToken
	tok, err := p.lex.Next()
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			p.errs.Add(errors.NewLexerError(lexErr.Line, lexErr.Message))
		} else {
			p.errs.Add(errors.NewLexerError(p.curToken.Line, err.Error()))
		}
		p.peekToken = token.Token{Type: token.EOF, Line: p.curToken.Line}
		return
	}
	p.peekToken = tok
}

func (p *Parser) curIs(t token.Type) bool { return p.curToken.Type == t }

func (p *Parser) errorf(format string, args ...any) {
	p.errs.Add(errors.NewParserError(p.curToken.Line, fmt.Sprintf(format, args...)))
}

// expect advances past t, recording an error and leaving the cursor in
// place when the current token does not match.
func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.errorf("se esperaba %s pero se encontró %s", t, p.curToken.Type)
	return false
}

// skipNewlines consumes zero or more blank NEWLINEs, which can appear
// between top-level statements and before a DEDENT.
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// synchronize discards tokens until a likely statement boundary, so a
// single malformed statement does not cascade into spurious errors.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) && !p.curIs(token.NEWLINE) && !p.curIs(token.DEDENT) {
		p.advance()
	}
	if p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// Parse runs the parser to completion and returns the program. Callers
// should check p.Errors().HasErrors() before trusting the result.
func (p *Parser) Parse() *ast.Program {
	line := p.curToken.Line
	p.skipNewlines()
	var stmts []ast.Statement
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	return ast.NewProgram(line, stmts)
}

// parseBlock parses an indented suite: COLON NEWLINE INDENT stmt+ DEDENT,
// or a single-line suite such as "if x: print(x)".
func (p *Parser) parseBlock() *ast.Block {
	line := p.curToken.Line
	if !p.expect(token.COLON) {
		p.synchronize()
		return ast.NewBlock(line, nil)
	}
	if !p.curIs(token.NEWLINE) {
		stmt := p.parseSimpleStatement()
		if !p.curIs(token.EOF) {
			p.expect(token.NEWLINE)
		}
		var stmts []ast.Statement
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		return ast.NewBlock(line, stmts)
	}
	p.advance() // NEWLINE
	p.skipNewlines()
	if !p.expect(token.INDENT) {
		p.synchronize()
		return ast.NewBlock(line, nil)
	}
	var stmts []ast.Statement
	for !p.curIs(token.DEDENT) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipNewlines()
	}
	p.expect(token.DEDENT)
	return ast.NewBlock(line, stmts)
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.DEF:
		return p.parseFunction()
	case token.TRY:
		return p.parseTry()
	default:
		stmt := p.parseSimpleStatement()
		if !p.curIs(token.EOF) && !p.curIs(token.DEDENT) {
			p.expect(token.NEWLINE)
		}
		return stmt
	}
}

// parseSimpleStatement parses the statements that fit on one line:
// assignment, print, return, global, break, continue, del, or a bare
// expression evaluated for its side effect.
func (p *Parser) parseSimpleStatement() ast.Statement {
	line := p.curToken.Line
	switch p.curToken.Type {
	case token.PRINT:
		p.advance()
		if !p.expect(token.LPAREN) {
			p.synchronize()
			return nil
		}
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return ast.NewPrint(line, expr)
	case token.RETURN:
		p.advance()
		if p.curIs(token.NEWLINE) || p.curIs(token.EOF) || p.curIs(token.DEDENT) {
			return ast.NewReturn(line, nil)
		}
		return ast.NewReturn(line, p.parseExpression())
	case token.GLOBAL:
		p.advance()
		names := []string{p.curToken.Literal}
		p.expect(token.IDENT)
		for p.curIs(token.COMMA) {
			p.advance()
			names = append(names, p.curToken.Literal)
			p.expect(token.IDENT)
		}
		return ast.NewGlobal(line, names)
	case token.BREAK:
		p.advance()
		return ast.NewBreak(line)
	case token.CONTINUE:
		p.advance()
		return ast.NewContinue(line)
	case token.DEL:
		p.advance()
		target := p.parsePostfix(p.parseAtom())
		if idx, ok := target.(*ast.Index); ok {
			return ast.NewDel(line, idx.Target, idx.Index)
		}
		return ast.NewDel(line, target, nil)
	default:
		return p.parseAssignmentOrExpr(line)
	}
}

// parseAssignmentOrExpr parses either NAME '=' expr, a subscript
// assignment target[idx] = expr, or a bare expression statement.
func (p *Parser) parseAssignmentOrExpr(line int) ast.Statement {
	expr := p.parseExpression()

	if p.curIs(token.ASSIGN) {
		p.advance()
		value := p.parseExpression()
		switch lhs := expr.(type) {
		case *ast.Identifier:
			return ast.NewAssignment(line, lhs.Name, value)
		case *ast.Index:
			return ast.NewIndexAssignment(line, lhs.Target, lhs.Index, value)
		default:
			p.errs.Add(errors.NewParserError(line, "destino de asignación inválido"))
			return nil
		}
	}
	return ast.NewExprStmt(line, expr)
}

func (p *Parser) parseIf() ast.Statement {
	line := p.curToken.Line
	p.advance() // if
	cond := p.parseExpression()
	then := p.parseBlock()

	node := ast.NewIf(line, cond, then)
	for p.curIs(token.ELIF) {
		p.advance()
		elifCond := p.parseExpression()
		elifBlock := p.parseBlock()
		node.Elifs = append(node.Elifs, ast.ElifClause{Cond: elifCond, Block: elifBlock})
	}
	if p.curIs(token.ELSE) {
		p.advance()
		node.Else = p.parseBlock()
	}
	return node
}

func (p *Parser) parseWhile() ast.Statement {
	line := p.curToken.Line
	p.advance() // while
	cond := p.parseExpression()
	block := p.parseBlock()
	return ast.NewWhile(line, cond, block)
}

// parseFor recognizes the "for NAME in range(expr):" shape specially
// so later phases can lower it to a counting loop instead of a general
// iterable walk.
func (p *Parser) parseFor() ast.Statement {
	line := p.curToken.Line
	p.advance() // for
	name := p.curToken.Literal
	p.expect(token.IDENT)
	p.expect(token.IN)

	isRange := p.curIs(token.RANGE)
	iterable := p.parseExpression()
	block := p.parseBlock()
	return ast.NewFor(line, name, iterable, isRange, block)
}

func (p *Parser) parseFunction() ast.Statement {
	line := p.curToken.Line
	p.advance() // def
	name := p.curToken.Literal
	p.expect(token.IDENT)
	p.expect(token.LPAREN)

	var params []string
	if !p.curIs(token.RPAREN) {
		params = append(params, p.curToken.Literal)
		p.expect(token.IDENT)
		for p.curIs(token.COMMA) {
			p.advance()
			params = append(params, p.curToken.Literal)
			p.expect(token.IDENT)
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	return ast.NewFunction(line, name, params, body)
}

func (p *Parser) parseTry() ast.Statement {
	line := p.curToken.Line
	p.advance() // try
	tryBlock := p.parseBlock()
	var excepts []ast.ExceptClause
	for p.curIs(token.EXCEPT) {
		p.advance()
		name := ""
		if p.curIs(token.IDENT) {
			name = p.curToken.Literal
			p.advance()
		}
		excepts = append(excepts, ast.ExceptClause{Name: name, Block: p.parseBlock()})
	}
	return ast.NewTry(line, tryBlock, excepts)
}

// --- expressions, by precedence ---

func (p *Parser) parseExpression() ast.Expression { return p.parseComparison() }

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAddSub()
	for isComparisonOp(p.curToken.Type) {
		line := p.curToken.Line
		op := opText(p.curToken.Type)
		p.advance()
		right := p.parseAddSub()
		left = ast.NewBinaryOp(line, op, left, right)
	}
	return left
}

func isComparisonOp(t token.Type) bool {
	switch t {
	case token.EQ, token.NOTEQ, token.LT, token.GT, token.LTEQ, token.GTEQ:
		return true
	}
	return false
}

func (p *Parser) parseAddSub() ast.Expression {
	left := p.parseMulDiv()
	for p.curIs(token.PLUS) || p.curIs(token.MINUS) {
		line := p.curToken.Line
		op := opText(p.curToken.Type)
		p.advance()
		right := p.parseMulDiv()
		left = ast.NewBinaryOp(line, op, left, right)
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expression {
	left := p.parseUnary()
	for p.curIs(token.STAR) || p.curIs(token.SLASH) || p.curIs(token.PERCENT) {
		line := p.curToken.Line
		op := opText(p.curToken.Type)
		p.advance()
		right := p.parseUnary()
		left = ast.NewBinaryOp(line, op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.curIs(token.MINUS) {
		line := p.curToken.Line
		p.advance()
		operand := p.parseUnary()
		return ast.NewUnaryOp(line, "-", operand)
	}
	return p.parsePostfix(p.parseAtom())
}

// parsePostfix handles chained indexing and dotted method calls, e.g.
// a[0][1] or xs.append(1).
func (p *Parser) parsePostfix(expr ast.Expression) ast.Expression {
	for {
		line := p.curToken.Line
		switch {
		case p.curIs(token.LBRACKET):
			p.advance()
			idx := p.parseExpression()
			p.expect(token.RBRACKET)
			expr = ast.NewIndex(line, expr, idx)
		case p.curIs(token.DOT):
			p.advance()
			method := p.curToken.Literal
			p.expect(token.IDENT)
			p.expect(token.LPAREN)
			args := p.parseArgList()
			p.expect(token.RPAREN)
			callee := method
			if ident, ok := expr.(*ast.Identifier); ok {
				callee = ident.Name + "." + method
			}
			expr = ast.NewCall(line, callee, args)
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.curIs(token.RPAREN) {
		return args
	}
	args = append(args, p.parseExpression())
	for p.curIs(token.COMMA) {
		p.advance()
		args = append(args, p.parseExpression())
	}
	return args
}

func (p *Parser) parseAtom() ast.Expression {
	line := p.curToken.Line
	switch p.curToken.Type {
	case token.INT:
		text := p.curToken.Literal
		p.advance()
		return ast.NewNumber(line, text, false)
	case token.FLOAT:
		text := p.curToken.Literal
		p.advance()
		return ast.NewNumber(line, text, true)
	case token.STRING:
		text := p.curToken.Literal
		p.advance()
		return ast.NewString(line, text)
	case token.TRUE:
		p.advance()
		return ast.NewBool(line, true)
	case token.FALSE:
		p.advance()
		return ast.NewBool(line, false)
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		p.advance()
		var elems []ast.Expression
		if !p.curIs(token.RBRACKET) {
			elems = append(elems, p.parseExpression())
			for p.curIs(token.COMMA) {
				p.advance()
				elems = append(elems, p.parseExpression())
			}
		}
		p.expect(token.RBRACKET)
		return ast.NewList(line, elems)
	case token.LBRACE:
		p.advance()
		var items []ast.DictItem
		if !p.curIs(token.RBRACE) {
			items = append(items, p.parseDictItem())
			for p.curIs(token.COMMA) {
				p.advance()
				items = append(items, p.parseDictItem())
			}
		}
		p.expect(token.RBRACE)
		return ast.NewDict(line, items)
	case token.LEN:
		p.advance()
		p.expect(token.LPAREN)
		args := p.parseArgList()
		p.expect(token.RPAREN)
		return ast.NewCall(line, "len", args)
	case token.RANGE:
		p.advance()
		p.expect(token.LPAREN)
		args := p.parseArgList()
		p.expect(token.RPAREN)
		return ast.NewCall(line, "range", args)
	case token.IDENT:
		name := p.curToken.Literal
		p.advance()
		if p.curIs(token.LPAREN) {
			p.advance()
			args := p.parseArgList()
			p.expect(token.RPAREN)
			return ast.NewCall(line, name, args)
		}
		return ast.NewIdentifier(line, name)
	default:
		p.errorf("token inesperado %s", p.curToken.Type)
		p.advance()
		return ast.NewIdentifier(line, "")
	}
}

func (p *Parser) parseDictItem() ast.DictItem {
	key := p.parseExpression()
	p.expect(token.COLON)
	value := p.parseExpression()
	return ast.DictItem{Key: key, Value: value}
}

func opText(t token.Type) string {
	switch t {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	case token.EQ:
		return "=="
	case token.NOTEQ:
		return "!="
	case token.LT:
		return "<"
	case token.GT:
		return ">"
	case token.LTEQ:
		return "<="
	case token.GTEQ:
		return ">="
	default:
		return strings.TrimSpace(t.String())
	}
}
