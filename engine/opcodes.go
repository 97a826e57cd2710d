package engine

import (
	"fmt"
	"math"
)

type OpCode uint16

const (
	OP_IMMED = OpCode(iota)
	OP_NEG
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_POW
	OP_ABS
	OP_EXP
	OP_LOG10
	OP_LOG
	OP_SQRT
	OP_SINH
	OP_COSH
	OP_TANH
	OP_SIN
	OP_COS
	OP_TAN
	OP_ASIN
	OP_ACOS
	OP_ATAN
	// OP_VAR+k-1 pushes variable #k
	OP_VAR
)

const (
	firstFunction = OP_ABS
	lastFunction  = OP_ATAN
	MaxVariables  = math.MaxUint16 - int(OP_VAR) + 1
)

type opcodeDescriptor struct {
	name string
	// number of operands taken from the stack, the result is pushed back
	args int
}

var opcodes = map[OpCode]opcodeDescriptor{
	OP_IMMED: {"OP_IMMED", 0},
	OP_NEG:   {"OP_NEG", 1},
	OP_ADD:   {"OP_ADD", 2},
	OP_SUB:   {"OP_SUB", 2},
	OP_MUL:   {"OP_MUL", 2},
	OP_DIV:   {"OP_DIV", 2},
	OP_POW:   {"OP_POW", 2},
	OP_ABS:   {"OP_ABS", 1},
	OP_EXP:   {"OP_EXP", 1},
	OP_LOG10: {"OP_LOG10", 1},
	OP_LOG:   {"OP_LOG", 1},
	OP_SQRT:  {"OP_SQRT", 1},
	OP_SINH:  {"OP_SINH", 1},
	OP_COSH:  {"OP_COSH", 1},
	OP_TANH:  {"OP_TANH", 1},
	OP_SIN:   {"OP_SIN", 1},
	OP_COS:   {"OP_COS", 1},
	OP_TAN:   {"OP_TAN", 1},
	OP_ASIN:  {"OP_ASIN", 1},
	OP_ACOS:  {"OP_ACOS", 1},
	OP_ATAN:  {"OP_ATAN", 1},
}

func (c OpCode) IsVariable() bool {
	return c >= OP_VAR
}

// VarIndex returns 1-based index of the variable pushed by the opcode
func (c OpCode) VarIndex() int {
	if !c.IsVariable() {
		return 0
	}
	return int(c-OP_VAR) + 1
}

func (c OpCode) Name() string {
	if c.IsVariable() {
		return "OP_VAR"
	}
	if dscr, ok := opcodes[c]; ok {
		return dscr.name
	}
	return "(wrong opcode)"
}

func (c OpCode) String() string {
	if c.IsVariable() {
		return fmt.Sprintf("OP_VAR(#%d)", c.VarIndex())
	}
	return fmt.Sprintf("%s(0x%02X)", c.Name(), uint16(c))
}

// stackEffect returns number of stack operands consumed and the change of stack depth
func (c OpCode) stackEffect() (int, int) {
	if c.IsVariable() {
		return 0, 1
	}
	dscr, ok := opcodes[c]
	if !ok {
		panic(fmt.Errorf("wrong opcode 0x%02X", uint16(c)))
	}
	if dscr.args == 0 {
		return 0, 1
	}
	return dscr.args, 1 - dscr.args
}

// VarOpCode is the opcode which pushes variable #k, k >= 1
func VarOpCode(k int) OpCode {
	if k < 1 || k > MaxVariables {
		panic(fmt.Errorf("VarOpCode: variable index %d out of range", k))
	}
	return OP_VAR + OpCode(k-1)
}

// FunctionOpCode maps index of the function in the fixed function set
// (abs, exp, log10, log, sqrt, sinh, cosh, tanh, sin, cos, tan, asin, acos, atan) to its opcode
func FunctionOpCode(fn int) OpCode {
	c := firstFunction + OpCode(fn)
	if fn < 0 || c > lastFunction {
		panic(fmt.Errorf("FunctionOpCode: wrong function index %d", fn))
	}
	return c
}

// BinaryOpCode maps operator character to opcode
func BinaryOpCode(op byte) (OpCode, bool) {
	switch op {
	case '+':
		return OP_ADD, true
	case '-':
		return OP_SUB, true
	case '*':
		return OP_MUL, true
	case '/':
		return OP_DIV, true
	case '^':
		return OP_POW, true
	}
	return 0, false
}
