package engine

import (
	"fmt"
	"strings"
)

// Assembler builds programs instruction by instruction. It tracks the stack depth
// and panics on instructions which would underflow the stack
type Assembler struct {
	prog  Program
	depth int
}

func NewAssembler(vars ...string) *Assembler {
	return &Assembler{
		prog: Program{
			Vars:       vars,
			Code:       make([]OpCode, 0),
			Immediates: make([]float64, 0),
		},
	}
}

// Immed pushes constant
func (a *Assembler) Immed(v float64) *Assembler {
	a.prog.Immediates = append(a.prog.Immediates, v)
	return a.op(OP_IMMED)
}

// Var pushes variable #k
func (a *Assembler) Var(k int) *Assembler {
	if k < 1 || k > len(a.prog.Vars) {
		panic(fmt.Errorf("error @ instruction #%d: variable #%d is not in the variable table", len(a.prog.Code), k))
	}
	return a.op(VarOpCode(k))
}

// OP appends operation. Pushes are assembled by Immed and Var
func (a *Assembler) OP(c OpCode) *Assembler {
	if c == OP_IMMED || c.IsVariable() {
		panic(fmt.Errorf("error @ instruction #%d: use Immed or Var for %s", len(a.prog.Code), c.Name()))
	}
	return a.op(c)
}

func (a *Assembler) op(c OpCode) *Assembler {
	args, delta := c.stackEffect()
	if a.depth < args {
		panic(fmt.Errorf("error @ instruction #%d: %s needs %d operand(s), stack depth is %d",
			len(a.prog.Code), c.Name(), args, a.depth))
	}
	a.prog.Code = append(a.prog.Code, c)
	a.depth += delta
	if a.depth > a.prog.StackSize {
		a.prog.StackSize = a.depth
	}
	return a
}

// Assemble returns the program. Exactly one value must remain on the stack
func (a *Assembler) Assemble() (*Program, error) {
	if a.depth != 1 {
		return nil, fmt.Errorf("program leaves %d values on the stack, expected 1", a.depth)
	}
	ret := a.prog
	return &ret, nil
}

func (a *Assembler) MustAssemble() *Program {
	ret, err := a.Assemble()
	if err != nil {
		panic(err)
	}
	return ret
}

// Build runs fn on a fresh assembler and assembles the result.
// Misuse of the assembler inside fn is returned as error
func Build(vars []string, fn func(a *Assembler)) (prog *Program, err error) {
	a := NewAssembler(vars...)
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		prog = nil
		if e, ok := r.(error); ok {
			err = fmt.Errorf("assembler: %w", e)
		} else {
			err = fmt.Errorf("assembler: %v", r)
		}
	}()
	fn(a)
	return a.Assemble()
}

// Disassemble lists the program one instruction per line
func Disassemble(p *Program) string {
	var buf strings.Builder
	dp := 0
	for i, c := range p.Code {
		fmt.Fprintf(&buf, "%04d %s", i, c.Name())
		switch {
		case c == OP_IMMED:
			if dp < len(p.Immediates) {
				fmt.Fprintf(&buf, " %g", p.Immediates[dp])
			}
			dp++
		case c.IsVariable():
			k := c.VarIndex()
			fmt.Fprintf(&buf, " #%d", k)
			if k <= len(p.Vars) {
				fmt.Fprintf(&buf, " (%s)", p.Vars[k-1])
			}
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
