package engine

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"
)

// Program is a compiled expression. It is read-only after compilation and can be
// shared among machines
type Program struct {
	// Source is the expression the program was compiled from, if any
	Source string
	// Vars is the variable table. Variable #k reads values[k-1]
	Vars []string
	// Code is the bytecode
	Code []OpCode
	// Immediates are the constants consumed by OP_IMMED in order of appearance
	Immediates []float64
	// StackSize is the maximum depth of the operand stack
	StackSize int
}

// Hash returns blake2b hash of the bytecode and immediates
func (p *Program) Hash() [32]byte {
	buf := make([]byte, 0, 2*len(p.Code)+8*len(p.Immediates))
	for _, c := range p.Code {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(c))
	}
	for _, v := range p.Immediates {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return blake2b.Sum256(buf)
}

// Eval evaluates the program with a fresh machine
func (p *Program) Eval(values []float64) (float64, error) {
	return NewMachine(p.StackSize).Run(p, values)
}
