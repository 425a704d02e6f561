package interp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lexico-lang/lexico/errors"
)

func (it *Interpreter) callLen(argOperand string) (Value, error) {
	arg, err := it.resolveOperand(argOperand)
	if err != nil {
		return nil, err
	}
	switch v := arg.(type) {
	case Str:
		return Int{Value: int64(utf8.RuneCountInString(v.Value))}, nil
	case *List:
		return Int{Value: int64(len(v.Elements))}, nil
	case *Dict:
		return Int{Value: int64(len(v.Entries))}, nil
	default:
		return nil, errors.NewRuntimeError("", "len() requiere una lista, string o diccionario")
	}
}

func (it *Interpreter) callInput(argOperand string) (Value, error) {
	if argOperand != "" {
		prompt, err := it.resolveOperand(argOperand)
		if err != nil {
			return nil, err
		}
		if s := prompt.String(); s != "" {
			fmt.Fprint(it.Stdout, s)
		}
	}
	if it.stdinReader == nil {
		it.stdinReader = bufio.NewReader(it.Stdin)
	}
	line, _ := it.stdinReader.ReadString('\n')
	return Str{Value: strings.TrimRight(line, "\r\n")}, nil
}

func (it *Interpreter) callInt(argOperand string) (Value, error) {
	if argOperand == "" {
		return nil, errors.NewRuntimeError("", "int() requiere un argumento")
	}
	arg, err := it.resolveOperand(argOperand)
	if err != nil {
		return nil, err
	}
	switch v := arg.(type) {
	case Int:
		return v, nil
	case Float:
		return Int{Value: int64(v.Value)}, nil
	case Bool:
		if v.Value {
			return Int{Value: 1}, nil
		}
		return Int{Value: 0}, nil
	case Str:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			return nil, errors.NewRuntimeError("", "int() requiere un valor convertible a entero")
		}
		return Int{Value: n}, nil
	default:
		return nil, errors.NewRuntimeError("", "int() requiere un valor convertible a entero")
	}
}

func (it *Interpreter) callFloat(argOperand string) (Value, error) {
	if argOperand == "" {
		return nil, errors.NewRuntimeError("", "float() requiere un argumento")
	}
	arg, err := it.resolveOperand(argOperand)
	if err != nil {
		return nil, err
	}
	switch v := arg.(type) {
	case Float:
		return v, nil
	case Int:
		return Float{Value: float64(v.Value)}, nil
	case Bool:
		if v.Value {
			return Float{Value: 1}, nil
		}
		return Float{Value: 0}, nil
	case Str:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			return nil, errors.NewRuntimeError("", "float() requiere un valor convertible a float")
		}
		return Float{Value: f}, nil
	default:
		return nil, errors.NewRuntimeError("", "float() requiere un valor convertible a float")
	}
}

func (it *Interpreter) callStr(argOperand string) (Value, error) {
	if argOperand == "" {
		return nil, errors.NewRuntimeError("", "str() requiere un argumento")
	}
	arg, err := it.resolveOperand(argOperand)
	if err != nil {
		return nil, err
	}
	return Str{Value: arg.String()}, nil
}
