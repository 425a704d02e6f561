package analyzer

// Kind is the coarse type tag the analyzer tracks. Unlike a real type
// system, these tags are descriptive only: nothing downstream enforces
// them, since the interpreter is dynamically typed. The analyzer tags
// function names KindFunction and every other name KindUnknown; no
// diagnostic reports the tag.
type Kind int

const (
	KindUnknown Kind = iota
	KindInteger
	KindFloat
	KindString
	KindBool
	KindList
	KindDict
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "entero"
	case KindFloat:
		return "flotante"
	case KindString:
		return "cadena"
	case KindBool:
		return "booleano"
	case KindList:
		return "lista"
	case KindDict:
		return "diccionario"
	case KindFunction:
		return "función"
	default:
		return "desconocido"
	}
}

// Symbol is a named entity known to a Scope.
type Symbol struct {
	Name   string
	Kind   Kind
	Params int // parameter count, meaningful only when Kind == KindFunction
}

// Scope holds every name assigned anywhere within one function body (or
// the top level). Analysis is flow-insensitive: a Scope is populated by
// a first pass over the whole body before any use is checked, so an
// assignment under one branch of an if is visible to every other
// branch and to code that lexically follows it, with no attempt to
// model which branch actually executes.
type Scope struct {
	Parent  *Scope
	Symbols map[string]*Symbol
}

// SymbolTable is the flat collection of scopes the analyzer walks: one
// per function plus the top-level (global) scope.
type SymbolTable struct {
	Global *Scope
}

// NewSymbolTable creates a table with an empty global scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{Global: &Scope{Symbols: make(map[string]*Symbol)}}
}

// NewFunctionScope creates a scope for a function body, chained to the
// global scope so builtins and globally-assigned names remain visible.
func (st *SymbolTable) NewFunctionScope() *Scope {
	return &Scope{Parent: st.Global, Symbols: make(map[string]*Symbol)}
}

// Define records name as assigned in scope, widening its Kind to
// KindUnknown if it was previously assigned a different kind (the
// analyzer does not attempt union types beyond "no longer known").
func (s *Scope) Define(name string, kind Kind) {
	if existing, ok := s.Symbols[name]; ok {
		if existing.Kind != kind {
			existing.Kind = KindUnknown
		}
		return
	}
	s.Symbols[name] = &Symbol{Name: name, Kind: kind}
}

// DefineFunction records a function name with its parameter count.
func (s *Scope) DefineFunction(name string, params int) {
	s.Symbols[name] = &Symbol{Name: name, Kind: KindFunction, Params: params}
}

// Resolve looks up name in s or any ancestor scope.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.Symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
