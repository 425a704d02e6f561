// Package analyzer implements the flow-insensitive semantic check that
// runs between parsing and TAC generation: every variable referenced
// by an expression must have been assigned somewhere in the enclosing
// function (or at the top level) — "somewhere" meaning anywhere in the
// textual body, regardless of which branch of an if/while/for actually
// executes at runtime. This mirrors the two-pass collect-then-check
// shape of a conventional symbol-table analyzer without attempting
// real control-flow or type analysis.
package analyzer

import (
	"github.com/lexico-lang/lexico/ast"
	"github.com/lexico-lang/lexico/errors"
)

var builtinCallees = map[string]bool{
	"len": true, "range": true, "int": true, "float": true, "str": true, "input": true,
}

// Analyzer walks a parsed Program and accumulates every semantic
// diagnostic it finds rather than stopping at the first.
type Analyzer struct {
	symbols *SymbolTable
	errs    *errors.List
}

// New creates an Analyzer.
func New() *Analyzer {
	return &Analyzer{symbols: NewSymbolTable(), errs: errors.NewList()}
}

// Analyze runs the two-pass check over prog and returns every
// diagnostic found. An empty, non-nil List means the program is clean.
func Analyze(prog *ast.Program) *errors.List {
	a := New()
	a.collectFunctionSignatures(prog.Statements)
	a.checkStatements(prog.Statements, a.symbols.Global)
	return a.errs
}

// collectFunctionSignatures registers every top-level function by
// name and parameter count before any body is checked, so mutually
// recursive and forward-referenced calls resolve.
func (a *Analyzer) collectFunctionSignatures(stmts []ast.Statement) {
	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.Function); ok {
			a.symbols.Global.DefineFunction(fn.Name, len(fn.Params))
		}
	}
}

// checkStatements runs both passes (collect assigned names, then
// check every use) over one statement list sharing a single scope —
// a function body or the top-level program.
func (a *Analyzer) checkStatements(stmts []ast.Statement, scope *Scope) {
	globals := a.collectAssignedNames(stmts, scope)
	for _, stmt := range stmts {
		a.checkStatement(stmt, scope, globals)
	}
}

// collectAssignedNames performs the flow-insensitive first pass:
// every name assigned anywhere in stmts (through any nested block) is
// registered in scope before any use is checked. It returns the set of
// names the body declared global, which the check pass also resolves
// against the global scope regardless of local shadowing.
func (a *Analyzer) collectAssignedNames(stmts []ast.Statement, scope *Scope) map[string]bool {
	globals := map[string]bool{}
	a.collectInto(stmts, scope, globals)
	return globals
}

func (a *Analyzer) collectInto(stmts []ast.Statement, scope *Scope, globals map[string]bool) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Assignment:
			if globals[s.Name] {
				a.symbols.Global.Define(s.Name, KindUnknown)
			} else {
				scope.Define(s.Name, KindUnknown)
			}
		case *ast.Global:
			for _, name := range s.Names {
				globals[name] = true
				a.symbols.Global.Define(name, KindUnknown)
			}
		case *ast.For:
			scope.Define(s.Name, KindUnknown)
			a.collectInto(s.Block.Statements, scope, globals)
		case *ast.While:
			a.collectInto(s.Block.Statements, scope, globals)
		case *ast.If:
			a.collectInto(s.Then.Statements, scope, globals)
			for _, elif := range s.Elifs {
				a.collectInto(elif.Block.Statements, scope, globals)
			}
			if s.Else != nil {
				a.collectInto(s.Else.Statements, scope, globals)
			}
		case *ast.Try:
			a.collectInto(s.TryBlock.Statements, scope, globals)
			for _, except := range s.Excepts {
				if except.Name != "" {
					scope.Define(except.Name, KindUnknown)
				}
				a.collectInto(except.Block.Statements, scope, globals)
			}
		}
		// IndexAssignment, Print, Return, Del, Break, Continue, ExprStmt,
		// and nested Function declarations introduce no new name in the
		// enclosing scope.
	}
}

// checkStatement verifies every identifier reference within stmt
// resolves in scope, recursing into nested blocks and, for a Function
// statement, into a fresh scope seeded with its parameters.
func (a *Analyzer) checkStatement(stmt ast.Statement, scope *Scope, globals map[string]bool) {
	switch s := stmt.(type) {
	case *ast.Assignment:
		a.checkExpr(s.Expr, scope)
	case *ast.IndexAssignment:
		a.checkExpr(s.Target, scope)
		a.checkExpr(s.Index, scope)
		a.checkExpr(s.Value, scope)
	case *ast.Print:
		a.checkExpr(s.Expr, scope)
	case *ast.ExprStmt:
		a.checkExpr(s.Expr, scope)
	case *ast.If:
		a.checkExpr(s.Cond, scope)
		a.checkStatements(s.Then.Statements, scope)
		for _, elif := range s.Elifs {
			a.checkExpr(elif.Cond, scope)
			a.checkStatements(elif.Block.Statements, scope)
		}
		if s.Else != nil {
			a.checkStatements(s.Else.Statements, scope)
		}
	case *ast.While:
		a.checkExpr(s.Cond, scope)
		a.checkStatements(s.Block.Statements, scope)
	case *ast.For:
		a.checkExpr(s.Iterable, scope)
		a.checkStatements(s.Block.Statements, scope)
	case *ast.Function:
		fnScope := a.symbols.NewFunctionScope()
		for _, param := range s.Params {
			fnScope.Define(param, KindUnknown)
		}
		a.checkStatements(s.Body.Statements, fnScope)
	case *ast.Return:
		if s.Expr != nil {
			a.checkExpr(s.Expr, scope)
		}
	case *ast.Del:
		a.checkExpr(s.Target, scope)
		if s.Index != nil {
			a.checkExpr(s.Index, scope)
		}
	case *ast.Try:
		a.checkStatements(s.TryBlock.Statements, scope)
		for _, except := range s.Excepts {
			a.checkStatements(except.Block.Statements, scope)
		}
	case *ast.Global, *ast.Break, *ast.Continue:
		// nothing to check
	}
}

func (a *Analyzer) checkExpr(expr ast.Expression, scope *Scope) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if _, ok := scope.Resolve(e.Name); !ok {
			a.errs.Add(errors.NewUndefinedVarError(e.Name, e.Line()))
		}
	case *ast.BinaryOp:
		a.checkExpr(e.Left, scope)
		a.checkExpr(e.Right, scope)
	case *ast.UnaryOp:
		a.checkExpr(e.Operand, scope)
	case *ast.Index:
		a.checkExpr(e.Target, scope)
		a.checkExpr(e.Index, scope)
	case *ast.List:
		for _, elem := range e.Elements {
			a.checkExpr(elem, scope)
		}
	case *ast.Dict:
		for _, item := range e.Items {
			a.checkExpr(item.Key, scope)
			a.checkExpr(item.Value, scope)
		}
	case *ast.Call:
		a.checkCall(e, scope)
	case *ast.Number, *ast.String, *ast.Bool:
		// no references
	}
}

func (a *Analyzer) checkCall(call *ast.Call, scope *Scope) {
	for _, arg := range call.Args {
		a.checkExpr(arg, scope)
	}

	receiver, method, isDotted := splitDotted(call.Callee)
	if isDotted {
		if _, ok := scope.Resolve(receiver); !ok {
			a.errs.Add(errors.NewUndefinedVarError(receiver, call.Line()))
		}
		_ = method
		return
	}
	if builtinCallees[call.Callee] {
		return
	}
	if sym, ok := scope.Resolve(call.Callee); ok && sym.Kind == KindFunction {
		return
	}
	a.errs.Add(errors.NewSemanticError(call.Line(), "función '"+call.Callee+"' no definida").
		WithHelp("defina la función antes de invocarla").WithCode("S004"))
}

func splitDotted(callee string) (receiver, method string, ok bool) {
	for i := 0; i < len(callee); i++ {
		if callee[i] == '.' {
			return callee[:i], callee[i+1:], true
		}
	}
	return "", "", false
}
