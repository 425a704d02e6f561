// Package interp executes optimized TAC directly: a single-threaded,
// sequential state machine over a flat instruction vector, a shared
// variable environment, and an explicit call stack for user-defined
// functions. It reproduces the reference interpreter's semantics
// exactly, including the fragilities spec.md's design notes call out
// deliberately rather than fixed: fixed positional parameter binding
// (n, x, y, z, a, b, c) regardless of a callee's declared parameter
// names, a call environment that is shared (not copied) with the
// caller for the duration of the call, and main-entry detection that
// only inspects the first function definition in the program.
package interp

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lexico-lang/lexico/errors"
	"github.com/lexico-lang/lexico/tac"
)

var paramNames = []string{"n", "x", "y", "z", "a", "b", "c"}

type frame struct {
	returnPC  int
	savedVars map[string]Value
	resultVar string
}

// Interpreter runs one TAC program to completion, accumulating PRINT
// output. A fresh Interpreter must be used per run: Run resets its own
// state at the start, mirroring the reference implementation's
// re-initialization on every interpret() call.
type Interpreter struct {
	Stdin  io.Reader
	Stdout io.Writer

	instrs      []tac.Instruction
	labels      map[string]int
	variables   map[string]Value
	callStack   []frame
	output      []string
	pc          int
	stdinReader *bufio.Reader
}

// New creates an Interpreter reading input prompts/replies from stdin
// and stdout by default.
func New() *Interpreter {
	return &Interpreter{Stdin: os.Stdin, Stdout: os.Stdout}
}

// Run executes prog and returns its PRINT output, newline-joined, or
// the first runtime error encountered.
func (it *Interpreter) Run(prog *tac.Program) (string, error) {
	it.instrs = prog.Instructions
	it.variables = map[string]Value{}
	it.callStack = nil
	it.output = nil
	it.labels = map[string]int{}

	for i, instr := range it.instrs {
		if instr.Op == tac.LABEL {
			it.labels[instr.Arg1] = i
		}
	}

	it.pc = it.findMainStart()

	for it.pc < len(it.instrs) {
		instr := it.instrs[it.pc]
		if err := it.execute(instr); err != nil {
			return strings.Join(it.output, "\n"), err
		}
		it.pc++
	}

	return strings.Join(it.output, "\n"), nil
}

// findMainStart mirrors the reference interpreter's quirk of only
// examining the FIRST function definition in the program: it locates
// the first "func_*" label, then the next bodyless RETURN after it,
// and resumes execution right there. Any later function definitions
// are reachable only through a CALL, never by falling past them at
// top level — unless a later function happens to start exactly where
// this scan lands, a known fragility this package preserves rather
// than corrects.
func (it *Interpreter) findMainStart() int {
	for i, instr := range it.instrs {
		if instr.Op == tac.LABEL && tac.IsFunctionLabel(instr.Arg1) {
			for j := i + 1; j < len(it.instrs); j++ {
				if it.instrs[j].Op == tac.RETURN && it.instrs[j].Arg1 == "" {
					return j + 1
				}
			}
			break
		}
	}
	return 0
}

func (it *Interpreter) execute(instr tac.Instruction) error {
	switch instr.Op {
	case tac.ASSIGN:
		v, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		it.variables[instr.Result] = v

	case tac.ADD, tac.SUB, tac.MUL, tac.DIV, tac.MOD:
		left, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		right, err := it.resolveOperand(instr.Arg2)
		if err != nil {
			return err
		}
		var result Value
		switch instr.Op {
		case tac.ADD:
			result, err = add(left, right)
		case tac.SUB:
			result, err = sub(left, right)
		case tac.MUL:
			result, err = mul(left, right)
		case tac.DIV:
			result, err = div(left, right)
		case tac.MOD:
			result, err = mod(left, right)
		}
		if err != nil {
			return err
		}
		it.variables[instr.Result] = result

	case tac.NEG:
		v, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		result, err := neg(v)
		if err != nil {
			return err
		}
		it.variables[instr.Result] = result

	case tac.EQ, tac.NEQ, tac.LT, tac.GT, tac.LTE, tac.GTE:
		left, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		right, err := it.resolveOperand(instr.Arg2)
		if err != nil {
			return err
		}
		var b bool
		switch instr.Op {
		case tac.EQ:
			b = equals(left, right)
		case tac.NEQ:
			b = !equals(left, right)
		case tac.LT:
			b, err = less(left, right)
		case tac.GT:
			b, err = greater(left, right)
		case tac.LTE:
			var gt bool
			gt, err = greater(left, right)
			b = !gt
		case tac.GTE:
			var lt bool
			lt, err = less(left, right)
			b = !lt
		}
		if err != nil {
			return err
		}
		it.variables[instr.Result] = Bool{Value: b}

	case tac.PRINT:
		v, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		it.output = append(it.output, v.String())

	case tac.LABEL:
		// no-op at runtime; resolved during the prepass

	case tac.GOTO:
		idx, ok := it.labels[instr.Arg1]
		if !ok {
			return errors.NewRuntimeError("", "Etiqueta no encontrada: "+instr.Arg1)
		}
		it.pc = idx - 1

	case tac.IF_FALSE:
		cond, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		if !cond.IsTruthy() {
			idx, ok := it.labels[instr.Arg2]
			if !ok {
				return errors.NewRuntimeError("", "Etiqueta no encontrada: "+instr.Arg2)
			}
			it.pc = idx - 1
		}

	case tac.LIST_CREATE:
		it.variables[instr.Result] = &List{}

	case tac.LIST_APPEND:
		return it.execListAppend(instr)

	case tac.LIST_GET:
		return it.execListGet(instr)

	case tac.LIST_SET:
		return it.execListSet(instr)

	case tac.DICT_CREATE:
		it.variables[instr.Result] = &Dict{Entries: map[string]Value{}}

	case tac.DICT_SET:
		return it.execDictSet(instr)

	case tac.CALL:
		return it.execCall(instr)

	case tac.RETURN:
		return it.execReturn(instr)

	case tac.DEL:
		return it.execDel(instr)

	case tac.BREAK, tac.CONTINUE:
		// reserved opcodes; TAC generation never lowers a loop exit or
		// continuation target for them, so they are inert here too.
	}

	return nil
}

func (it *Interpreter) execListAppend(instr tac.Instruction) error {
	value, err := it.resolveOperand(instr.Arg2)
	if err != nil {
		return err
	}
	existing, ok := it.variables[instr.Arg1]
	if !ok {
		return nil
	}
	list, ok := existing.(*List)
	if !ok {
		return errors.NewRuntimeError("", instr.Arg1+" no es una lista")
	}
	list.Elements = append(list.Elements, value)
	return nil
}

func (it *Interpreter) execListGet(instr tac.Instruction) error {
	container, err := it.resolveOperand(instr.Arg1)
	if err != nil {
		return err
	}
	key, err := it.resolveOperand(instr.Arg2)
	if err != nil {
		return err
	}

	switch c := container.(type) {
	case *List:
		index, ok := indexOf(key)
		if !ok {
			return errors.NewRuntimeError("", "Índice debe ser número: "+key.String())
		}
		if index < 0 || index >= len(c.Elements) {
			return errors.NewRuntimeError("", "Índice fuera de rango: "+strconv.Itoa(index))
		}
		it.variables[instr.Result] = c.Elements[index]
	case *Dict:
		dk := dictKey(key)
		v, ok := c.Entries[dk]
		if !ok {
			return errors.NewRuntimeError("", "Clave '"+key.String()+"' no existe en el diccionario")
		}
		it.variables[instr.Result] = v
	default:
		return errors.NewRuntimeError("", instr.Arg1+" no es una lista o diccionario")
	}
	return nil
}

func (it *Interpreter) execListSet(instr tac.Instruction) error {
	var container Value
	if v, ok := it.variables[instr.Arg1]; ok {
		container = v
	} else {
		v, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		container = v
	}

	key, err := it.resolveOperand(instr.Arg2)
	if err != nil {
		return err
	}
	value, err := it.resolveOperand(instr.Result)
	if err != nil {
		return err
	}

	switch c := container.(type) {
	case *List:
		index, ok := indexOf(key)
		if !ok {
			return errors.NewRuntimeError("", "Índice debe ser número")
		}
		if index < 0 || index >= len(c.Elements) {
			return errors.NewRuntimeError("", "Índice fuera de rango: "+strconv.Itoa(index))
		}
		c.Elements[index] = value
	case *Dict:
		c.Entries[dictKey(key)] = value
	default:
		return errors.NewRuntimeError("", instr.Arg1+" no es una lista o diccionario")
	}
	return nil
}

func (it *Interpreter) execDictSet(instr tac.Instruction) error {
	existing, ok := it.variables[instr.Arg1]
	if !ok {
		return errors.NewRuntimeError("", instr.Arg1+" no es un diccionario")
	}
	d, ok := existing.(*Dict)
	if !ok {
		return errors.NewRuntimeError("", instr.Arg1+" no es un diccionario")
	}
	key, err := it.resolveOperand(instr.Arg2)
	if err != nil {
		return err
	}
	value, err := it.resolveOperand(instr.Result)
	if err != nil {
		return err
	}
	d.Entries[dictKey(key)] = value
	return nil
}

func (it *Interpreter) execCall(instr tac.Instruction) error {
	switch instr.Arg1 {
	case "len":
		v, err := it.callLen(instr.Arg2)
		if err != nil {
			return err
		}
		it.variables[instr.Result] = v
		return nil
	case "input":
		v, err := it.callInput(instr.Arg2)
		if err != nil {
			return err
		}
		it.variables[instr.Result] = v
		return nil
	case "int":
		v, err := it.callInt(instr.Arg2)
		if err != nil {
			return err
		}
		it.variables[instr.Result] = v
		return nil
	case "float":
		v, err := it.callFloat(instr.Arg2)
		if err != nil {
			return err
		}
		it.variables[instr.Result] = v
		return nil
	case "str":
		v, err := it.callStr(instr.Arg2)
		if err != nil {
			return err
		}
		it.variables[instr.Result] = v
		return nil
	}

	funcLabel := "func_" + instr.Arg1
	idx, ok := it.labels[funcLabel]
	if !ok {
		return errors.NewRuntimeError("", "Función '"+instr.Arg1+"' no implementada")
	}

	savedVars := make(map[string]Value, len(it.variables))
	for k, v := range it.variables {
		savedVars[k] = v
	}
	it.callStack = append(it.callStack, frame{
		returnPC:  it.pc,
		savedVars: savedVars,
		resultVar: instr.Result,
	})

	if instr.Arg2 != "" {
		args := strings.Split(instr.Arg2, ",")
		for i, arg := range args {
			if i >= len(paramNames) {
				break
			}
			v, err := it.resolveOperand(strings.TrimSpace(arg))
			if err != nil {
				return err
			}
			it.variables[paramNames[i]] = v
		}
	}

	it.pc = idx
	return nil
}

func (it *Interpreter) execReturn(instr tac.Instruction) error {
	if len(it.callStack) == 0 {
		it.pc = len(it.variables) + 1000
		return nil
	}

	var returnValue Value
	var hasValue bool
	if instr.Arg1 != "" {
		v, err := it.resolveOperand(instr.Arg1)
		if err != nil {
			return err
		}
		returnValue, hasValue = v, true
	}

	top := it.callStack[len(it.callStack)-1]
	it.callStack = it.callStack[:len(it.callStack)-1]

	it.variables = top.savedVars
	it.pc = top.returnPC

	if top.resultVar != "" && hasValue {
		it.variables[top.resultVar] = returnValue
	}
	return nil
}

func (it *Interpreter) execDel(instr tac.Instruction) error {
	if instr.Arg2 == "" {
		if _, ok := it.variables[instr.Arg1]; !ok {
			return errors.NewRuntimeError("", "Variable '"+instr.Arg1+"' no existe")
		}
		delete(it.variables, instr.Arg1)
		return nil
	}

	container, ok := it.variables[instr.Arg1]
	if !ok {
		return nil
	}
	key, err := it.resolveOperand(instr.Arg2)
	if err != nil {
		return err
	}

	switch c := container.(type) {
	case *Dict:
		dk := dictKey(key)
		if _, exists := c.Entries[dk]; !exists {
			return errors.NewRuntimeError("", "Clave '"+key.String()+"' no existe")
		}
		delete(c.Entries, dk)
	case *List:
		index, ok := indexOf(key)
		if !ok {
			return errors.NewRuntimeError("", "Índice debe ser número")
		}
		if index < 0 || index >= len(c.Elements) {
			return errors.NewRuntimeError("", "Índice fuera de rango")
		}
		c.Elements = append(c.Elements[:index], c.Elements[index+1:]...)
	}
	return nil
}

func indexOf(v Value) (int, bool) {
	switch n := v.(type) {
	case Int:
		return int(n.Value), true
	case Float:
		return int(n.Value), true
	default:
		return 0, false
	}
}

func dictKey(v Value) string {
	return v.Type() + ":" + v.String()
}

// resolveOperand implements the reference interpreter's get_value
// resolution order: an absent operand is None, then a quoted string
// literal, then a numeric literal, then the True/False literals,
// then a variable lookup — anything else is an undefined-variable
// runtime error.
func (it *Interpreter) resolveOperand(operand string) (Value, error) {
	if operand == "" {
		return None{}, nil
	}
	if strings.HasPrefix(operand, `"`) && strings.HasSuffix(operand, `"`) && len(operand) >= 2 {
		return Str{Value: operand[1 : len(operand)-1]}, nil
	}
	if strings.Contains(operand, ".") {
		if f, err := strconv.ParseFloat(operand, 64); err == nil {
			return Float{Value: f}, nil
		}
	} else if n, err := strconv.ParseInt(operand, 10, 64); err == nil {
		return Int{Value: n}, nil
	}
	if operand == "True" {
		return Bool{Value: true}, nil
	}
	if operand == "False" {
		return Bool{Value: false}, nil
	}
	if v, ok := it.variables[operand]; ok {
		return v, nil
	}
	return nil, errors.NewRuntimeError("", "Variable no definida: "+operand)
}
