package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is any runtime value the interpreter's variable environment
// can hold.
type Value interface {
	Type() string
	String() string
	IsTruthy() bool
}

const (
	IntType    = "int"
	FloatType  = "float"
	StringType = "string"
	BoolType   = "bool"
	ListType   = "list"
	DictType   = "dict"
	NoneType   = "none"
)

// Int is a whole-number value.
type Int struct{ Value int64 }

func (i Int) Type() string   { return IntType }
func (i Int) String() string { return strconv.FormatInt(i.Value, 10) }
func (i Int) IsTruthy() bool { return i.Value != 0 }

// Float is a floating-point value.
type Float struct{ Value float64 }

func (f Float) Type() string   { return FloatType }
func (f Float) String() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }
func (f Float) IsTruthy() bool { return f.Value != 0 }

// Str is a string value.
type Str struct{ Value string }

func (s Str) Type() string   { return StringType }
func (s Str) String() string { return s.Value }
func (s Str) IsTruthy() bool { return s.Value != "" }

// Bool is a boolean value.
type Bool struct{ Value bool }

func (b Bool) Type() string   { return BoolType }
func (b Bool) String() string { return formatBool(b.Value) }
func (b Bool) IsTruthy() bool { return b.Value }

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// None is the absence of a value.
type None struct{}

func (None) Type() string   { return NoneType }
func (None) String() string { return "None" }
func (None) IsTruthy() bool { return false }

// List is a mutable, order-preserving sequence.
type List struct{ Elements []Value }

func (l *List) Type() string   { return ListType }
func (l *List) IsTruthy() bool { return len(l.Elements) > 0 }
func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = reprOf(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Dict is a mutable map keyed by each key's type-tagged string form
// (see dictKey). Insertion order isn't tracked; String renders the
// entries sorted by that stored key. Dict printing isn't part of the
// externally defined contract; only PRINT of scalars and list elements
// is.
type Dict struct{ Entries map[string]Value }

func (d *Dict) Type() string   { return DictType }
func (d *Dict) IsTruthy() bool { return len(d.Entries) > 0 }
func (d *Dict) String() string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, reprOf(d.Entries[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// reprOf renders a value the way it would appear nested inside a list
// or dict's own String(), quoting strings the way the print built-in
// never does for a top-level value.
func reprOf(v Value) string {
	if s, ok := v.(Str); ok {
		return `"` + s.Value + `"`
	}
	return v.String()
}
