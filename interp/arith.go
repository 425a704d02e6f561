package interp

import (
	"math"
	"strings"

	"github.com/lexico-lang/lexico/errors"
)

func numeric(v Value) (float64, bool, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n.Value), true, true
	case Float:
		return n.Value, false, true
	case Bool:
		if n.Value {
			return 1, true, true
		}
		return 0, true, true
	default:
		return 0, false, false
	}
}

func arithResult(v float64, bothInt bool) Value {
	if bothInt {
		return Int{Value: int64(v)}
	}
	return Float{Value: v}
}

func pythonMod(l, r float64) float64 {
	m := math.Mod(l, r)
	if m != 0 && (m < 0) != (r < 0) {
		m += r
	}
	return m
}

func add(left, right Value) (Value, error) {
	if ls, ok := left.(Str); ok {
		if rs, ok := right.(Str); ok {
			return Str{Value: ls.Value + rs.Value}, nil
		}
	}
	l, lInt, lOK := numeric(left)
	r, rInt, rOK := numeric(right)
	if !lOK || !rOK {
		return nil, errors.NewRuntimeError("", "tipos incompatibles para +")
	}
	return arithResult(l+r, lInt && rInt), nil
}

func sub(left, right Value) (Value, error) {
	l, lInt, lOK := numeric(left)
	r, rInt, rOK := numeric(right)
	if !lOK || !rOK {
		return nil, errors.NewRuntimeError("", "tipos incompatibles para -")
	}
	return arithResult(l-r, lInt && rInt), nil
}

func mul(left, right Value) (Value, error) {
	l, lInt, lOK := numeric(left)
	r, rInt, rOK := numeric(right)
	if !lOK || !rOK {
		return nil, errors.NewRuntimeError("", "tipos incompatibles para *")
	}
	return arithResult(l*r, lInt && rInt), nil
}

func div(left, right Value) (Value, error) {
	l, _, lOK := numeric(left)
	r, _, rOK := numeric(right)
	if !lOK || !rOK {
		return nil, errors.NewRuntimeError("", "tipos incompatibles para /")
	}
	if r == 0 {
		return nil, errors.NewRuntimeError("", "División por cero")
	}
	return Float{Value: l / r}, nil
}

func mod(left, right Value) (Value, error) {
	l, lInt, lOK := numeric(left)
	r, rInt, rOK := numeric(right)
	if !lOK || !rOK {
		return nil, errors.NewRuntimeError("", "tipos incompatibles para %")
	}
	if r == 0 {
		return nil, errors.NewRuntimeError("", "Módulo por cero")
	}
	return arithResult(pythonMod(l, r), lInt && rInt), nil
}

func neg(v Value) (Value, error) {
	n, isInt, ok := numeric(v)
	if !ok {
		return nil, errors.NewRuntimeError("", "tipo incompatible para negación")
	}
	return arithResult(-n, isInt), nil
}

func equals(left, right Value) bool {
	if ls, ok := left.(Str); ok {
		rs, ok := right.(Str)
		return ok && ls.Value == rs.Value
	}
	l, _, lOK := numeric(left)
	r, _, rOK := numeric(right)
	if lOK && rOK {
		return l == r
	}
	return left.String() == right.String() && left.Type() == right.Type()
}

func less(left, right Value) (bool, error) {
	if ls, ok := left.(Str); ok {
		rs, ok := right.(Str)
		if !ok {
			return false, errors.NewRuntimeError("", "tipos incompatibles para comparación")
		}
		return strings.Compare(ls.Value, rs.Value) < 0, nil
	}
	l, _, lOK := numeric(left)
	r, _, rOK := numeric(right)
	if !lOK || !rOK {
		return false, errors.NewRuntimeError("", "tipos incompatibles para comparación")
	}
	return l < r, nil
}

func greater(left, right Value) (bool, error) {
	lt, err := less(right, left)
	return lt, err
}
