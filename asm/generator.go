package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lexico-lang/lexico/tac"
)

// Generator lowers a tac.Program into a register-machine pseudo-assembly
// listing: a round-robin allocator maps temporaries and synthetic loop
// counters (names starting with "t" or "_") to registers, while every
// other ASSIGN target gets a slot in a memory-mapped ".data" section
// addressed stack-pointer-relative. Grounded on
// machine_code_generator.py's MachineCodeGenerator, in the string-
// builder snippet idiom of skx-math-compiler's compiler.Generator.
type Generator struct {
	lines        []string
	registerMap  map[string]Register
	nextRegister int
	memoryMap    map[string]int
	memoryOffset int
}

// New returns a Generator ready to lower one program.
func New() *Generator {
	return &Generator{
		registerMap: make(map[string]Register),
		memoryMap:   make(map[string]int),
	}
}

// Generate returns the full pseudo-assembly listing for prog: a .data
// section declaring every non-temporary ASSIGN target, followed by a
// .text section with one snippet per instruction, closed by a fixed
// exit epilogue.
func (g *Generator) Generate(prog *tac.Program) string {
	g.lines = nil
	g.registerMap = make(map[string]Register)
	g.nextRegister = 0
	g.memoryMap = make(map[string]int)
	g.memoryOffset = 0

	g.emit(".data")
	for _, instr := range prog.Instructions {
		if instr.Op == tac.ASSIGN && !isTempOrSynthetic(instr.Result) {
			if _, ok := g.memoryMap[instr.Result]; !ok {
				g.memoryMap[instr.Result] = g.memoryOffset
				g.emit(fmt.Sprintf("    %s: .word 0", instr.Result))
				g.memoryOffset += 4
			}
		}
	}

	g.emit("")
	g.emit(".text")
	g.emit("    .globl main")
	g.emit("main:")
	g.emit("")

	for _, instr := range prog.Instructions {
		g.generateInstruction(instr)
	}

	g.emit("")
	g.emit("    MOV R0, #0")
	g.emit("    B _exit")

	return strings.Join(g.lines, "\n")
}

func (g *Generator) emit(line string) {
	g.lines = append(g.lines, line)
}

func isTempOrSynthetic(name string) bool {
	return strings.HasPrefix(name, "t") || strings.HasPrefix(name, "_")
}

// getRegister returns var's already-assigned register, or allocates
// the next one in the round-robin pool.
func (g *Generator) getRegister(name string) Register {
	if reg, ok := g.registerMap[name]; ok {
		return reg
	}
	reg := registerPool[g.nextRegister%len(registerPool)]
	g.nextRegister++
	g.registerMap[name] = reg
	return reg
}

func (g *Generator) nextFreeRegister() Register {
	reg := registerPool[g.nextRegister%len(registerPool)]
	g.nextRegister++
	return reg
}

func isNumericLiteral(operand string) bool {
	if _, err := strconv.ParseInt(operand, 10, 64); err == nil {
		return true
	}
	if strings.Contains(operand, ".") {
		_, err := strconv.ParseFloat(operand, 64)
		return err == nil
	}
	return false
}

// loadValue emits whatever code is needed to get operand's value into
// a register and returns that register. A numeric literal is loaded
// with an immediate MOV; a temporary or synthetic name reuses its
// already-allocated register; anything else is a named variable, read
// stack-pointer-relative from its memory-mapped slot.
func (g *Generator) loadValue(operand string) Register {
	if operand == "" {
		return ""
	}
	if isNumericLiteral(operand) {
		reg := g.nextFreeRegister()
		g.emit(fmt.Sprintf("    MOV %s, #%s", reg, operand))
		return reg
	}
	if isTempOrSynthetic(operand) {
		return g.getRegister(operand)
	}
	reg := g.nextFreeRegister()
	offset := g.memoryMap[operand]
	g.emit(fmt.Sprintf("    LDR %s, [SP, #%d]", reg, offset))
	return reg
}

// storeValue persists reg's value under name: a temporary or synthetic
// name just records the register mapping, a named variable is spilled
// to its stack-pointer-relative memory slot.
func (g *Generator) storeValue(reg Register, name string) {
	if isTempOrSynthetic(name) {
		g.registerMap[name] = reg
		return
	}
	offset := g.memoryMap[name]
	g.emit(fmt.Sprintf("    STR %s, [SP, #%d]", reg, offset))
}

func (g *Generator) generateInstruction(instr tac.Instruction) {
	switch instr.Op {
	case tac.ASSIGN:
		if reg := g.loadValue(instr.Arg1); reg != "" {
			g.storeValue(reg, instr.Result)
		}

	case tac.ADD, tac.SUB, tac.MUL, tac.DIV, tac.MOD:
		reg1 := g.loadValue(instr.Arg1)
		reg2 := g.loadValue(instr.Arg2)
		dest := g.getRegister(instr.Result)
		g.emit(fmt.Sprintf("    %s %s, %s, %s", string(instr.Op), dest, reg1, reg2))
		if !isTempOrSynthetic(instr.Result) {
			g.storeValue(dest, instr.Result)
		}

	case tac.NEG:
		src := g.loadValue(instr.Arg1)
		dest := g.getRegister(instr.Result)
		g.emit(fmt.Sprintf("    NEG %s, %s", dest, src))
		if !isTempOrSynthetic(instr.Result) {
			g.storeValue(dest, instr.Result)
		}

	case tac.EQ, tac.NEQ, tac.LT, tac.GT, tac.LTE, tac.GTE:
		cc := compareMnemonic[string(instr.Op)]
		reg1 := g.loadValue(instr.Arg1)
		reg2 := g.loadValue(instr.Arg2)
		dest := g.getRegister(instr.Result)
		g.emit(fmt.Sprintf("    CMP %s, %s", reg1, reg2))
		g.emit(fmt.Sprintf("    MOV%s %s, #1", cc, dest))
		g.emit(fmt.Sprintf("    MOVN%s %s, #0", cc, dest))

	case tac.PRINT:
		reg := g.loadValue(instr.Arg1)
		g.emit(fmt.Sprintf("    MOV R0, %s", reg))
		g.emit("    BL _print_int")

	case tac.LABEL:
		g.emit(instr.Arg1 + ":")

	case tac.GOTO:
		g.emit(fmt.Sprintf("    B %s", instr.Arg1))

	case tac.IF_FALSE:
		reg := g.loadValue(instr.Arg1)
		g.emit(fmt.Sprintf("    CMP %s, #0", reg))
		g.emit(fmt.Sprintf("    BEQ %s", instr.Arg2))

	case tac.LIST_CREATE:
		g.emit("    BL _list_create")
		dest := g.getRegister(instr.Result)
		g.emit(fmt.Sprintf("    MOV %s, R0", dest))

	case tac.LIST_APPEND:
		listReg := g.loadValue(instr.Arg1)
		itemReg := g.loadValue(instr.Arg2)
		g.emit(fmt.Sprintf("    MOV R0, %s", listReg))
		g.emit(fmt.Sprintf("    MOV R1, %s", itemReg))
		g.emit("    BL _list_append")

	case tac.LIST_GET:
		listReg := g.loadValue(instr.Arg1)
		indexReg := g.loadValue(instr.Arg2)
		dest := g.getRegister(instr.Result)
		g.emit(fmt.Sprintf("    MOV R0, %s", listReg))
		g.emit(fmt.Sprintf("    MOV R1, %s", indexReg))
		g.emit("    BL _list_get")
		g.emit(fmt.Sprintf("    MOV %s, R0", dest))

	case tac.CALL:
		if instr.Arg1 == "len" {
			listReg := g.loadValue(instr.Arg2)
			dest := g.getRegister(instr.Result)
			g.emit(fmt.Sprintf("    MOV R0, %s", listReg))
			g.emit("    BL _list_len")
			g.emit(fmt.Sprintf("    MOV %s, R0", dest))
		}

		// LIST_SET, DICT_CREATE, DICT_SET, RETURN, DEL, BREAK and
		// CONTINUE have no runtime-support entry point in the
		// original machine_code_generator.py and are left
		// unemitted, matching its scope exactly.
	}
}
