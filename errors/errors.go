// Package errors implements the one-discriminated-type-per-phase error
// taxonomy: LexerError, ParserError, and SemanticError are always
// located at a source line; RuntimeError names the offending
// operation instead, since it has no source position once the TAC has
// been generated.
package errors

import (
	"fmt"
	"strings"
)

// Phase identifies which compiler stage raised an Error.
type Phase int

const (
	PhaseLexer Phase = iota
	PhaseParser
	PhaseSemantic
	PhaseRuntime
)

func (p Phase) String() string {
	switch p {
	case PhaseLexer:
		return "léxico"
	case PhaseParser:
		return "sintáctico"
	case PhaseSemantic:
		return "semántico"
	case PhaseRuntime:
		return "ejecución"
	default:
		return "desconocido"
	}
}

// Error is a single diagnostic. Line is meaningful for the static
// phases; Op carries the offending operation name for RuntimeError.
type Error struct {
	Phase   Phase
	Line    int
	Op      string
	Message string
	Code    string
	Help    string
}

func (e *Error) Error() string { return e.String() }

// String renders the externally-defined error contract (spec.md §7):
// "Línea N: <msg>" for the static phases, "Error de ejecución: <msg>"
// for the interpreter.
func (e *Error) String() string {
	if e.Phase == PhaseRuntime {
		if e.Op != "" {
			return fmt.Sprintf("Error de ejecución: %s (%s)", e.Message, e.Op)
		}
		return fmt.Sprintf("Error de ejecución: %s", e.Message)
	}
	return fmt.Sprintf("Línea %d: %s", e.Line, e.Message)
}

// WithHelp attaches a help string, surfaced only by the rich Reporter.
func (e *Error) WithHelp(help string) *Error {
	e.Help = help
	return e
}

// WithCode attaches a short diagnostic code, surfaced only by the
// rich Reporter.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// NewLexerError builds a located lexical diagnostic.
func NewLexerError(line int, message string) *Error {
	return &Error{Phase: PhaseLexer, Line: line, Message: message, Code: "L001"}
}

// NewParserError builds a located syntax diagnostic.
func NewParserError(line int, message string) *Error {
	return &Error{Phase: PhaseParser, Line: line, Message: message, Code: "P001"}
}

// NewSemanticError builds a located semantic diagnostic.
func NewSemanticError(line int, message string) *Error {
	return &Error{Phase: PhaseSemantic, Line: line, Message: message, Code: "S001"}
}

// NewUndefinedVarError builds the exact diagnostic spec.md §8 scenario
// 6 requires: "Línea N: variable 'x' no definida".
func NewUndefinedVarError(name string, line int) *Error {
	return NewSemanticError(line, fmt.Sprintf("variable '%s' no definida", name)).
		WithHelp("asigne la variable antes de usarla").
		WithCode("S003")
}

// NewRuntimeError builds an interpreter diagnostic naming the
// offending operation.
func NewRuntimeError(op, message string) *Error {
	return &Error{Phase: PhaseRuntime, Op: op, Message: message, Code: "R001"}
}

// List accumulates diagnostics for phases (the semantic analyzer) that
// collect every error in one pass instead of failing on the first.
type List struct {
	errors []*Error
}

// NewList creates an empty diagnostic list.
func NewList() *List { return &List{} }

// Add appends a diagnostic.
func (l *List) Add(err *Error) { l.errors = append(l.errors, err) }

// HasErrors reports whether any diagnostic was recorded.
func (l *List) HasErrors() bool { return len(l.errors) > 0 }

// Errors returns the recorded diagnostics in recording order.
func (l *List) Errors() []*Error { return l.errors }

// Error implements the error interface over the whole list.
func (l *List) Error() string { return l.String() }

// String renders every diagnostic, one per line.
func (l *List) String() string {
	var sb strings.Builder
	for i, e := range l.errors {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.String())
	}
	return sb.String()
}
