package compiler

import (
	"fmt"
	"strings"

	"github.com/lunfardo314/fparser/engine"
	"github.com/lunfardo314/fparser/lexer"
)

// operator classes in increasing order of precedence
var operatorClasses = [...]string{"+-", "*/", "^"}

// Summary is the size of the program as counted by the first pass
type Summary struct {
	CodeLen       int
	NumImmediates int
	StackSize     int
}

type compiler struct {
	f    string
	vars []string
	// nil in the counting pass
	prog  *engine.Program
	sum   Summary
	depth int
}

// Count runs the counting pass over the validated and compacted expression f
func Count(f string, vars []string) (Summary, error) {
	c := &compiler{
		f:    f,
		vars: vars,
	}
	if err := c.compile(0, len(f)-1); err != nil {
		return Summary{}, err
	}
	return c.sum, nil
}

// Compile compiles the validated and compacted expression f into a program.
// The counting pass sizes the program, the fill pass populates it
func Compile(f string, vars []string) (*engine.Program, error) {
	sum, err := Count(f, vars)
	if err != nil {
		return nil, err
	}
	c := &compiler{
		f:    f,
		vars: vars,
		prog: &engine.Program{
			Vars:       append([]string(nil), vars...),
			Code:       make([]engine.OpCode, 0, sum.CodeLen),
			Immediates: make([]float64, 0, sum.NumImmediates),
			StackSize:  sum.StackSize,
		},
	}
	if err = c.compile(0, len(f)-1); err != nil {
		return nil, err
	}
	if c.sum != sum {
		return nil, fmt.Errorf("fill pass %+v does not match counting pass %+v", c.sum, sum)
	}
	return c.prog, nil
}

func (c *compiler) emit(op engine.OpCode) {
	c.sum.CodeLen++
	if c.prog != nil {
		c.prog.Code = append(c.prog.Code, op)
	}
}

func (c *compiler) emitImmediate(v float64) {
	c.emit(engine.OP_IMMED)
	c.sum.NumImmediates++
	if c.prog != nil {
		c.prog.Immediates = append(c.prog.Immediates, v)
	}
}

func (c *compiler) push() {
	c.depth++
	if c.depth > c.sum.StackSize {
		c.sum.StackSize = c.depth
	}
}

// compile compiles f[b:e+1]
func (c *compiler) compile(b, e int) error {
	if b > e {
		return fmt.Errorf("missing operand @ %d in '%s'", b, c.f)
	}
	f := c.f
	switch {
	case f[b] == '+':
		return c.compile(b+1, e)
	case Enclosed(f, b, e):
		return c.compile(b+1, e-1)
	}
	if fn, arg, ok := c.functionCall(b, e); ok {
		if err := c.compile(arg+1, e-1); err != nil {
			return err
		}
		c.emit(engine.FunctionOpCode(fn))
		return nil
	}
	if f[b] == '-' && b < e {
		if Enclosed(f, b+1, e) {
			if err := c.compile(b+2, e-1); err != nil {
				return err
			}
			c.emit(engine.OP_NEG)
			return nil
		}
		if fn, arg, ok := c.functionCall(b+1, e); ok {
			if err := c.compile(arg+1, e-1); err != nil {
				return err
			}
			c.emit(engine.FunctionOpCode(fn))
			c.emit(engine.OP_NEG)
			return nil
		}
	}
	for _, class := range operatorClasses {
		j := FindOperator(f, b, e, class)
		if j < 0 {
			continue
		}
		if f[j] != '+' && f[j] != '-' && f[b] == '-' {
			// -a*b is -(a*b)
			if err := c.compile(b+1, e); err != nil {
				return err
			}
			c.emit(engine.OP_NEG)
			return nil
		}
		if err := c.compile(b, j-1); err != nil {
			return err
		}
		if err := c.compile(j+1, e); err != nil {
			return err
		}
		op, _ := engine.BinaryOpCode(f[j])
		c.emit(op)
		c.depth--
		return nil
	}
	return c.operand(b, e)
}

// functionCall recognizes 'fcn(...)' spanning f[b:e+1]. Returns function index and position of '('
func (c *compiler) functionCall(b, e int) (int, int, bool) {
	fn, n := lexer.FunctionIndex(c.f[b : e+1])
	if fn < 0 {
		return 0, 0, false
	}
	arg := b + n
	if arg > e || !Enclosed(c.f, arg, e) {
		return 0, 0, false
	}
	return fn, arg, true
}

// operand compiles number literal or variable, optionally with leading '-'
func (c *compiler) operand(b, e int) error {
	b2 := b
	if c.f[b] == '-' {
		b2++
	}
	if b2 > e {
		return fmt.Errorf("missing operand @ %d in '%s'", b2, c.f)
	}
	s := c.f[b2 : e+1]
	if lexer.IsDigit(s[0]) || s[0] == '.' {
		v, _, end, ok := lexer.ParseNumber(s)
		if !ok || end != len(s) {
			return fmt.Errorf("invalid number '%s' @ %d in '%s'", s, b2, c.f)
		}
		c.emitImmediate(v)
	} else {
		k, n := lexer.VariableIndex(s, c.vars)
		if k == 0 || n != len(s) {
			return fmt.Errorf("invalid element '%s' @ %d in '%s'", s, b2, c.f)
		}
		c.emit(engine.VarOpCode(k))
	}
	c.push()
	if b2 > b {
		c.emit(engine.OP_NEG)
	}
	return nil
}

// Enclosed is true if f[b:e+1] is '(...)' with the parentheses matching each other
func Enclosed(f string, b, e int) bool {
	if b >= e || f[b] != '(' || f[e] != ')' {
		return false
	}
	depth := 0
	for j := b + 1; j < e; j++ {
		switch f[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// FindOperator returns position of the rightmost top-level binary operator of the class within f[b:e+1], or -1
func FindOperator(f string, b, e int, class string) int {
	depth := 0
	for j := e; j >= b; j-- {
		switch f[j] {
		case ')':
			depth++
		case '(':
			depth--
		}
		if depth == 0 && strings.IndexByte(class, f[j]) >= 0 && lexer.IsBinaryOperator(f, j) {
			return j
		}
	}
	return -1
}
