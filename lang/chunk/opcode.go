package chunk

import "fmt"

// Opcode is the tag of a bytecode instruction. It is a sealed, bounds-checked
// enum: converting an arbitrary uint16 to Opcode must go through
// OpcodeFromWord, which rejects unknown values, rather than a raw cast.
type Opcode uint16

//nolint:revive
const (
	Constant Opcode = iota
	Negate
	Add
	Subtract
	Multiply
	Divide
	NilOp
	True
	False
	Not
	Equal
	Greater
	Less
	Print
	Pop
	SetSP
	DefineGlobal
	GetGlobal
	SetGlobal
	GetLocal
	SetLocal
	Jmp
	JmpFalse
	JmpTrue
	Loop
	PopStoreTmp
	Call
	Return
	Eof
	Panic

	maxOpcode
)

var opcodeNames = [...]string{
	Constant:     "CONSTANT",
	Negate:       "NEGATE",
	Add:          "ADD",
	Subtract:     "SUBTRACT",
	Multiply:     "MULTIPLY",
	Divide:       "DIVIDE",
	NilOp:        "NIL",
	True:         "TRUE",
	False:        "FALSE",
	Not:          "NOT",
	Equal:        "EQUAL",
	Greater:      "GREATER",
	Less:         "LESS",
	Print:        "PRINT",
	Pop:          "POP",
	SetSP:        "SET_SP",
	DefineGlobal: "DEFINE_GLOBAL",
	GetGlobal:    "GET_GLOBAL",
	SetGlobal:    "SET_GLOBAL",
	GetLocal:     "GET_LOCAL",
	SetLocal:     "SET_LOCAL",
	Jmp:          "JMP",
	JmpFalse:     "JMP_FALSE",
	JmpTrue:      "JMP_TRUE",
	Loop:         "LOOP",
	PopStoreTmp:  "POP_STORE_TMP",
	Call:         "CALL",
	Return:       "RETURN",
	Eof:          "EOF",
	Panic:        "PANIC",
}

// hasOperand reports whether op is followed by exactly one inline operand
// word: constant-ref opcodes, jump/loop opcodes, local slot opcodes and
// Call all carry one operand, and so does the Panic placeholder; everything
// else carries none.
var hasOperand = [...]bool{
	Constant:     true,
	Negate:       false,
	Add:          false,
	Subtract:     false,
	Multiply:     false,
	Divide:       false,
	NilOp:        false,
	True:         false,
	False:        false,
	Not:          false,
	Equal:        false,
	Greater:      false,
	Less:         false,
	Print:        false,
	Pop:          false,
	SetSP:        false,
	DefineGlobal: true,
	GetGlobal:    true,
	SetGlobal:    true,
	GetLocal:     true,
	SetLocal:     true,
	Jmp:          true,
	JmpFalse:     true,
	JmpTrue:      true,
	Loop:         true,
	PopStoreTmp:  false,
	Call:         true,
	Return:       false,
	Eof:          false,
	Panic:        true, // placeholder word, never legitimately executed
}

// OperandWords reports how many 16-bit words of operand follow op.
func (op Opcode) OperandWords() int {
	if int(op) < len(hasOperand) && hasOperand[op] {
		return 1
	}
	return 0
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", uint16(op))
}

// OpcodeFromWord converts a raw code word to an Opcode, rejecting anything
// outside the known set instead of reinterpreting it.
func OpcodeFromWord(w uint16) (Opcode, error) {
	op := Opcode(w)
	if op >= maxOpcode {
		return 0, fmt.Errorf("unknown opcode %d", w)
	}
	return op, nil
}

// isJump reports whether op is a forward-jump opcode whose operand is
// patched after the fact (used by the disassembler to print jump targets).
func isJump(op Opcode) bool {
	switch op {
	case Jmp, JmpFalse, JmpTrue:
		return true
	default:
		return false
	}
}
