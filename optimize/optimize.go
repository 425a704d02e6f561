// Package optimize implements the TAC-to-TAC passes that run between
// generation and interpretation: constant folding, copy propagation of
// literal temporaries, and dead-temporary elimination. Every pass is
// semantics-preserving and the combined result never grows the
// instruction count.
package optimize

import (
	"math"
	"strconv"
	"strings"

	"github.com/lexico-lang/lexico/tac"
)

var arithOps = map[tac.Op]bool{
	tac.ADD: true, tac.SUB: true, tac.MUL: true, tac.DIV: true, tac.MOD: true,
	tac.EQ: true, tac.NEQ: true, tac.LT: true, tac.GT: true, tac.LTE: true, tac.GTE: true,
}

// Run applies every pass to a fixed point (or a generous bound, as a
// backstop against an unforeseen oscillation) and returns a new,
// optimized program. The input program is left untouched.
func Run(prog *tac.Program) *tac.Program {
	instrs := append([]tac.Instruction(nil), prog.Instructions...)

	for i := 0; i < 64; i++ {
		folded, changedFold := constantFold(instrs)
		propagated, changedProp := copyPropagate(folded)
		pruned, changedDead := eliminateDeadTemps(propagated)
		instrs = pruned
		if !changedFold && !changedProp && !changedDead {
			break
		}
	}

	return &tac.Program{Instructions: instrs}
}

// isTemp reports whether name is a synthetic temporary ("t0", "t1", …).
func isTemp(name string) bool {
	return len(name) > 1 && name[0] == 't' && isDigits(name[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isLiteral reports whether operand is a numeric, string, or boolean
// literal rather than a variable or temporary name.
func isLiteral(operand string) bool {
	if operand == "" {
		return false
	}
	if operand == "True" || operand == "False" {
		return true
	}
	if strings.HasPrefix(operand, `"`) && strings.HasSuffix(operand, `"`) {
		return true
	}
	if _, err := strconv.ParseFloat(operand, 64); err == nil {
		return true
	}
	return false
}

// numericLiteral returns operand's numeric value for folding purposes.
// True/False fold as 1/0, the same coercion interp/arith.go's numeric
// applies at runtime, so a boolean operand can feed an arithmetic or
// comparison fold exactly as if the interpreter had evaluated it.
func numericLiteral(operand string) (float64, bool) {
	if operand == "True" {
		return 1, true
	}
	if operand == "False" {
		return 0, true
	}
	if strings.HasPrefix(operand, `"`) {
		return 0, false
	}
	v, err := strconv.ParseFloat(operand, 64)
	return v, err == nil
}

func isIntLiteral(operand string) bool {
	if operand == "True" || operand == "False" {
		return true
	}
	_, err := strconv.ParseInt(operand, 10, 64)
	return err == nil
}

func formatNumber(v float64, asInt bool) string {
	if asInt {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// constantFold replaces an arithmetic or comparison instruction whose
// two operands are literals with an equivalent ASSIGN. Division and
// modulo by a literal zero are left untouched so the interpreter still
// surfaces the runtime error.
func constantFold(instrs []tac.Instruction) ([]tac.Instruction, bool) {
	out := make([]tac.Instruction, len(instrs))
	changed := false

	for i, instr := range instrs {
		out[i] = instr
		if !arithOps[instr.Op] || !isLiteral(instr.Arg1) || !isLiteral(instr.Arg2) {
			continue
		}

		left, leftOK := numericLiteral(instr.Arg1)
		right, rightOK := numericLiteral(instr.Arg2)
		if !leftOK || !rightOK {
			continue
		}
		if (instr.Op == tac.DIV || instr.Op == tac.MOD) && right == 0 {
			continue
		}

		bothInt := isIntLiteral(instr.Arg1) && isIntLiteral(instr.Arg2)
		var resultText string
		switch instr.Op {
		case tac.ADD:
			resultText = formatNumber(left+right, bothInt)
		case tac.SUB:
			resultText = formatNumber(left-right, bothInt)
		case tac.MUL:
			resultText = formatNumber(left*right, bothInt)
		case tac.DIV:
			resultText = formatNumber(left/right, false)
		case tac.MOD:
			// same floored modulo as interp/arith.go's pythonMod
			m := math.Mod(left, right)
			if m != 0 && (m < 0) != (right < 0) {
				m += right
			}
			resultText = formatNumber(m, bothInt)
		case tac.EQ:
			resultText = formatBool(left == right)
		case tac.NEQ:
			resultText = formatBool(left != right)
		case tac.LT:
			resultText = formatBool(left < right)
		case tac.GT:
			resultText = formatBool(left > right)
		case tac.LTE:
			resultText = formatBool(left <= right)
		case tac.GTE:
			resultText = formatBool(left >= right)
		default:
			continue
		}

		out[i] = tac.Instruction{Op: tac.ASSIGN, Arg1: resultText, Result: instr.Result}
		changed = true
	}

	return out, changed
}

// copyPropagate inlines a literal assigned to a temporary directly into
// the Arg1/Arg2 operands of every instruction that reads it; the
// defining ASSIGN stays in place for dead-temp elimination to remove
// once nothing reads the temporary. Only temporaries are rewritten: a real
// variable may be reassigned later in flow-insensitive code the
// optimizer cannot see, so it is never a substitution target.
func copyPropagate(instrs []tac.Instruction) ([]tac.Instruction, bool) {
	literalOf := map[string]string{}
	for _, instr := range instrs {
		if instr.Op == tac.ASSIGN && isTemp(instr.Result) && isLiteral(instr.Arg1) {
			literalOf[instr.Result] = instr.Arg1
		}
	}
	if len(literalOf) == 0 {
		return instrs, false
	}

	changed := false
	substitute := func(operand string) string {
		if lit, ok := literalOf[operand]; ok {
			changed = true
			return lit
		}
		return operand
	}

	out := make([]tac.Instruction, len(instrs))
	for i, instr := range instrs {
		rewritten := instr
		if instr.Op == tac.ASSIGN && isTemp(instr.Result) && isLiteral(instr.Arg1) {
			// the defining ASSIGN itself is left as-is; dead-temp
			// elimination removes it once every use has inlined the
			// literal directly.
			out[i] = rewritten
			continue
		}
		rewritten.Arg1 = substitute(rewritten.Arg1)
		rewritten.Arg2 = substitute(rewritten.Arg2)
		out[i] = rewritten
	}

	return out, changed
}

// eliminateDeadTemps drops any instruction whose result is a temporary
// that no later instruction reads, as long as the instruction has no
// observable side effect of its own.
func eliminateDeadTemps(instrs []tac.Instruction) ([]tac.Instruction, bool) {
	used := map[string]bool{}
	for _, instr := range instrs {
		reads := []string{instr.Arg1, instr.Arg2}
		if instr.Op == tac.CALL {
			// a user-function CALL carries its arguments comma-joined
			// in Arg2, so each piece is a read of its own.
			for _, arg := range strings.Split(instr.Arg2, ",") {
				reads = append(reads, strings.TrimSpace(arg))
			}
		}
		if instr.Op == tac.LIST_SET || instr.Op == tac.DICT_SET {
			// LIST_SET/DICT_SET store their value operand in Result
			// (tacgen lowers every IndexAssignment to LIST_SET and
			// every dict-literal item to DICT_SET), so Result is a
			// read here, not a write — the container being mutated is Arg1.
			reads = append(reads, instr.Result)
		}
		for _, operand := range reads {
			if isTemp(operand) {
				used[operand] = true
			}
		}
	}

	out := instrs[:0:0]
	changed := false
	for _, instr := range instrs {
		if isTemp(instr.Result) && !used[instr.Result] && !hasSideEffect(instr.Op) {
			changed = true
			continue
		}
		out = append(out, instr)
	}

	return out, changed
}

func hasSideEffect(op tac.Op) bool {
	switch op {
	case tac.PRINT, tac.LIST_APPEND, tac.LIST_SET, tac.DICT_SET, tac.CALL, tac.RETURN, tac.DEL,
		tac.LABEL, tac.GOTO, tac.IF_FALSE, tac.BREAK, tac.CONTINUE:
		return true
	default:
		return false
	}
}
