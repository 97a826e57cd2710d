package syntax

import (
	"fmt"

	"github.com/lunfardo314/fparser/lexer"
)

// Error is a syntax error at a position of the original expression string
type Error struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error @ position %d in '%s': %s", e.Pos, e.Expr, e.Msg)
}

type checker struct {
	expr string
	f    string
	pos  []int
	vars []string
}

func (c *checker) errorAt(j int, format string, args ...interface{}) error {
	if j > len(c.f) {
		j = len(c.f)
	}
	return &Error{
		Expr: c.expr,
		Pos:  c.pos[j],
		Msg:  fmt.Sprintf(format, args...),
	}
}

// Check validates compacted expression f in one pass. expr is the original string, pos maps
// indices of f to positions in expr as returned by lexer.Compact
func Check(expr, f string, pos []int, vars []string) error {
	c := &checker{
		expr: expr,
		f:    f,
		pos:  pos,
		vars: vars,
	}
	return c.check()
}

func (c *checker) check() error {
	f := c.f
	n := len(f)
	depth := 0
	j := 0
	for {
		// operand must follow
		if j >= n {
			return c.errorAt(j, "missing operand")
		}
		ch := f[j]
		if ch == '+' || ch == '-' {
			j++
			if j >= n {
				return c.errorAt(j, "missing operand")
			}
			ch = f[j]
			if lexer.IsOperator(ch) {
				return c.errorAt(j, "multiple operators")
			}
		}
		if fn, l := lexer.FunctionIndex(f[j:]); fn >= 0 {
			j += l
			if j >= n {
				return c.errorAt(j, "missing function argument")
			}
			ch = f[j]
			if ch != '(' {
				return c.errorAt(j, "missing opening parenthesis")
			}
		}
		switch {
		case ch == '(':
			depth++
			j++
			continue
		case ch == ')':
			if j > 0 && f[j-1] == '(' {
				return c.errorAt(j-1, "empty parentheses")
			}
			return c.errorAt(j, "missing operand")
		case lexer.IsDigit(ch) || ch == '.':
			_, b, e, ok := lexer.ParseNumber(f[j:])
			if !ok {
				return c.errorAt(j, "invalid number format: %s", f[j+b:j+e])
			}
			j += e
		default:
			k, l := lexer.VariableIndex(f[j:], c.vars)
			if l == 0 {
				return c.errorAt(j, "missing operand")
			}
			if k == 0 {
				return c.errorAt(j, "invalid element: %s", f[j:j+l])
			}
			j += l
		}
		for j < n && f[j] == ')' {
			depth--
			if depth < 0 {
				return c.errorAt(j, "mismatched parenthesis")
			}
			j++
		}
		if j >= n {
			break
		}
		// operand is complete, binary operator or end must follow
		if !lexer.IsBinaryOperator(f, j) {
			return c.errorAt(j, "missing operator")
		}
		if j+1 >= n {
			return c.errorAt(j, "missing operand")
		}
		if next := f[j+1]; lexer.IsOperator(next) {
			// only a sign directly followed by an operand may come after a binary operator
			if (next != '+' && next != '-') || j+2 >= n || !startsOperand(f[j+2]) {
				return c.errorAt(j+1, "multiple operators")
			}
		}
		j++
	}
	if depth > 0 {
		return c.errorAt(n, "missing )")
	}
	return nil
}

func startsOperand(c byte) bool {
	return c == '(' || lexer.IsOperandChar(c)
}
