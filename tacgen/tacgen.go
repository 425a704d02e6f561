// Package tacgen lowers an analyzed AST into three-address code. The
// lowering is syntax-directed: each expression visit returns the
// operand (a literal, a variable name, or a freshly allocated
// temporary) that holds its value, and each statement visit emits the
// instructions needed to produce its effect.
package tacgen

import (
	"strconv"
	"strings"

	"github.com/lexico-lang/lexico/ast"
	"github.com/lexico-lang/lexico/tac"
)

var binOpcode = map[string]tac.Op{
	"+": tac.ADD, "-": tac.SUB, "*": tac.MUL, "/": tac.DIV, "%": tac.MOD,
	"==": tac.EQ, "!=": tac.NEQ, "<": tac.LT, ">": tac.GT, "<=": tac.LTE, ">=": tac.GTE,
}

// Generator walks a Program and accumulates the TAC listing for it.
type Generator struct {
	instrs       []tac.Instruction
	tempCounter  int
	labelCounter int
}

// Generate lowers prog to its TAC listing.
func Generate(prog *ast.Program) *tac.Program {
	g := &Generator{}
	g.visitStatements(prog.Statements)
	return &tac.Program{Instructions: g.instrs}
}

func (g *Generator) newTemp() string {
	t := "t" + strconv.Itoa(g.tempCounter)
	g.tempCounter++
	return t
}

func (g *Generator) newLabel() string {
	l := "L" + strconv.Itoa(g.labelCounter)
	g.labelCounter++
	return l
}

func (g *Generator) emit(op tac.Op, arg1, arg2, result string) {
	g.instrs = append(g.instrs, tac.Instruction{Op: op, Arg1: arg1, Arg2: arg2, Result: result})
}

func (g *Generator) visitStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		g.visitStatement(stmt)
	}
}

func (g *Generator) visitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		result := g.visitExpr(s.Expr)
		g.emit(tac.ASSIGN, result, "", s.Name)
	case *ast.IndexAssignment:
		indexResult := g.visitExpr(s.Index)
		valueResult := g.visitExpr(s.Value)
		if ident, ok := s.Target.(*ast.Identifier); ok {
			g.emit(tac.LIST_SET, ident.Name, indexResult, valueResult)
		} else {
			containerResult := g.visitExpr(s.Target)
			g.emit(tac.LIST_SET, containerResult, indexResult, valueResult)
		}
	case *ast.Print:
		result := g.visitExpr(s.Expr)
		g.emit(tac.PRINT, result, "", "")
	case *ast.ExprStmt:
		g.visitExpr(s.Expr)
	case *ast.If:
		g.visitIf(s)
	case *ast.While:
		g.visitWhile(s)
	case *ast.For:
		g.visitFor(s)
	case *ast.Function:
		g.emit(tac.LABEL, "func_"+s.Name, "", "")
		g.visitStatements(s.Body.Statements)
		g.emit(tac.RETURN, "", "", "")
	case *ast.Return:
		if s.Expr != nil {
			result := g.visitExpr(s.Expr)
			g.emit(tac.RETURN, result, "", "")
		} else {
			g.emit(tac.RETURN, "", "", "")
		}
	case *ast.Global:
		// global declarations carry no runtime effect; they only
		// widen which scope an assignment later in the body targets.
	case *ast.Try:
		g.visitTry(s)
	case *ast.Del:
		g.visitDel(s)
	case *ast.Break:
		g.emit(tac.BREAK, "", "", "")
	case *ast.Continue:
		g.emit(tac.CONTINUE, "", "", "")
	}
}

func (g *Generator) visitIf(s *ast.If) {
	condResult := g.visitExpr(s.Cond)
	elseLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(tac.IF_FALSE, condResult, elseLabel, "")
	g.visitStatements(s.Then.Statements)
	g.emit(tac.GOTO, endLabel, "", "")

	g.emit(tac.LABEL, elseLabel, "", "")
	for _, elif := range s.Elifs {
		nextLabel := g.newLabel()
		elifResult := g.visitExpr(elif.Cond)
		g.emit(tac.IF_FALSE, elifResult, nextLabel, "")
		g.visitStatements(elif.Block.Statements)
		g.emit(tac.GOTO, endLabel, "", "")
		g.emit(tac.LABEL, nextLabel, "", "")
	}

	if s.Else != nil {
		g.visitStatements(s.Else.Statements)
	}

	g.emit(tac.LABEL, endLabel, "", "")
}

func (g *Generator) visitWhile(s *ast.While) {
	startLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(tac.LABEL, startLabel, "", "")
	condResult := g.visitExpr(s.Cond)
	g.emit(tac.IF_FALSE, condResult, endLabel, "")
	g.visitStatements(s.Block.Statements)
	g.emit(tac.GOTO, startLabel, "", "")
	g.emit(tac.LABEL, endLabel, "", "")
}

func (g *Generator) visitFor(s *ast.For) {
	if s.IsRange {
		limitResult := g.rangeLimit(s.Iterable)
		counter := s.Name

		g.emit(tac.ASSIGN, "0", "", counter)
		startLabel := g.newLabel()
		endLabel := g.newLabel()

		g.emit(tac.LABEL, startLabel, "", "")
		tempCond := g.newTemp()
		g.emit(tac.LT, counter, limitResult, tempCond)
		g.emit(tac.IF_FALSE, tempCond, endLabel, "")

		g.visitStatements(s.Block.Statements)

		tempInc := g.newTemp()
		g.emit(tac.ADD, counter, "1", tempInc)
		g.emit(tac.ASSIGN, tempInc, "", counter)
		g.emit(tac.GOTO, startLabel, "", "")
		g.emit(tac.LABEL, endLabel, "", "")
		return
	}

	listResult := g.visitExpr(s.Iterable)
	counter := "_idx_" + s.Name
	listLen := g.newTemp()

	g.emit(tac.CALL, "len", listResult, listLen)
	g.emit(tac.ASSIGN, "0", "", counter)

	startLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(tac.LABEL, startLabel, "", "")
	tempCond := g.newTemp()
	g.emit(tac.LT, counter, listLen, tempCond)
	g.emit(tac.IF_FALSE, tempCond, endLabel, "")

	g.emit(tac.LIST_GET, listResult, counter, s.Name)
	g.visitStatements(s.Block.Statements)

	tempInc := g.newTemp()
	g.emit(tac.ADD, counter, "1", tempInc)
	g.emit(tac.ASSIGN, tempInc, "", counter)
	g.emit(tac.GOTO, startLabel, "", "")
	g.emit(tac.LABEL, endLabel, "", "")
}

// rangeLimit visits the first argument of a range(...) call driving a
// counting for-loop. Parsing sets IsRange whenever the iterable begins
// with the range keyword; an iterable that is not a bare call, or a
// call with no arguments, yields a limit of "0".
func (g *Generator) rangeLimit(iterable ast.Expression) string {
	call, ok := iterable.(*ast.Call)
	if !ok || len(call.Args) == 0 {
		return "0"
	}
	return g.visitExpr(call.Args[0])
}

func (g *Generator) visitTry(s *ast.Try) {
	tryLabel := g.newLabel()
	exceptLabel := g.newLabel()
	endLabel := g.newLabel()

	g.emit(tac.LABEL, tryLabel, "", "")
	g.visitStatements(s.TryBlock.Statements)
	g.emit(tac.GOTO, endLabel, "", "")

	g.emit(tac.LABEL, exceptLabel, "", "")
	for _, except := range s.Excepts {
		g.visitStatements(except.Block.Statements)
	}

	g.emit(tac.LABEL, endLabel, "", "")
}

func (g *Generator) visitDel(s *ast.Del) {
	if s.Index != nil {
		listResult := g.visitExpr(s.Target)
		indexResult := g.visitExpr(s.Index)
		g.emit(tac.DEL, listResult, indexResult, "")
		return
	}
	if ident, ok := s.Target.(*ast.Identifier); ok {
		g.emit(tac.DEL, ident.Name, "", "")
		return
	}
	g.emit(tac.DEL, g.visitExpr(s.Target), "", "")
}

func (g *Generator) visitExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.BinaryOp:
		left := g.visitExpr(e.Left)
		right := g.visitExpr(e.Right)
		temp := g.newTemp()
		op, ok := binOpcode[e.Op]
		if !ok {
			op = tac.Op("UNKNOWN")
		}
		g.emit(op, left, right, temp)
		return temp
	case *ast.UnaryOp:
		operand := g.visitExpr(e.Operand)
		temp := g.newTemp()
		g.emit(tac.NEG, operand, "", temp)
		return temp
	case *ast.Number:
		return e.Text
	case *ast.String:
		return `"` + e.Value + `"`
	case *ast.Bool:
		if e.Value {
			return "True"
		}
		return "False"
	case *ast.Identifier:
		return e.Name
	case *ast.List:
		tempList := g.newTemp()
		g.emit(tac.LIST_CREATE, "", "", tempList)
		for _, elem := range e.Elements {
			elemResult := g.visitExpr(elem)
			g.emit(tac.LIST_APPEND, tempList, elemResult, "")
		}
		return tempList
	case *ast.Dict:
		tempDict := g.newTemp()
		g.emit(tac.DICT_CREATE, "", "", tempDict)
		for _, item := range e.Items {
			keyResult := g.visitExpr(item.Key)
			valueResult := g.visitExpr(item.Value)
			g.emit(tac.DICT_SET, tempDict, keyResult, valueResult)
		}
		return tempDict
	case *ast.Index:
		listResult := g.visitExpr(e.Target)
		indexResult := g.visitExpr(e.Index)
		temp := g.newTemp()
		g.emit(tac.LIST_GET, listResult, indexResult, temp)
		return temp
	case *ast.Call:
		return g.visitCall(e)
	}
	return ""
}

func (g *Generator) visitCall(call *ast.Call) string {
	switch {
	case call.Callee == "range":
		if len(call.Args) > 0 {
			return g.visitExpr(call.Args[0])
		}
		return "0"
	case call.Callee == "len":
		var argResult string
		if len(call.Args) > 0 {
			argResult = g.visitExpr(call.Args[0])
		}
		temp := g.newTemp()
		g.emit(tac.CALL, "len", argResult, temp)
		return temp
	case strings.Contains(call.Callee, "."):
		parts := strings.SplitN(call.Callee, ".", 2)
		listName, method := parts[0], parts[1]
		if method == "append" && len(call.Args) > 0 {
			argResult := g.visitExpr(call.Args[0])
			g.emit(tac.LIST_APPEND, listName, argResult, "")
		}
		return listName
	default:
		argsStr := ""
		if len(call.Args) > 0 {
			parts := make([]string, len(call.Args))
			for i, arg := range call.Args {
				parts[i] = g.visitExpr(arg)
			}
			argsStr = strings.Join(parts, ", ")
		}
		temp := g.newTemp()
		g.emit(tac.CALL, call.Callee, argsStr, temp)
		return temp
	}
}
