// Package asm emits a register-machine pseudo-assembly listing from a
// TAC program. It is a thin, mechanical layer over the core pipeline:
// not held to the interpreter's semantics, only to the textual shape
// its output must take.
package asm

// Register names the registers the allocator hands out, round-robin,
// to temporaries and intermediate results.
type Register string

// Available registers, in allocation order — matches
// machine_code_generator.py's eight-register pool.
const (
	R0 Register = "R0"
	R1 Register = "R1"
	R2 Register = "R2"
	R3 Register = "R3"
	R4 Register = "R4"
	R5 Register = "R5"
	R6 Register = "R6"
	R7 Register = "R7"
)

var registerPool = []Register{R0, R1, R2, R3, R4, R5, R6, R7}

// compareMnemonic maps a TAC comparison opcode to the conditional
// suffix used for the MOV{cc}/MOVN{cc} pair that follows a CMP.
var compareMnemonic = map[string]string{
	"EQ":  "EQ",
	"NEQ": "NE",
	"LT":  "LT",
	"GT":  "GT",
	"LTE": "LE",
	"GTE": "GE",
}
