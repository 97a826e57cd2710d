package engine

import (
	"fmt"
	"math"
)

// Machine is the stack machine which runs programs. It owns the scratch stack, so
// machines must not be shared among goroutines. A program can be run by many machines
type Machine struct {
	stack []float64
}

func NewMachine(stackSize int) *Machine {
	return &Machine{
		stack: make([]float64, stackSize),
	}
}

// Run executes the program with variable values. Recoverable domain errors are
// returned as EvalError, the result is 0 whenever error is returned
func (m *Machine) Run(p *Program, values []float64) (float64, error) {
	if len(values) < len(p.Vars) {
		return 0, fmt.Errorf("%w: expected %d values, got %d", ErrShortValues, len(p.Vars), len(values))
	}
	if len(m.stack) < p.StackSize {
		m.stack = make([]float64, p.StackSize)
	}
	s := m.stack
	sp := -1
	dp := 0
	for _, op := range p.Code {
		switch op {
		case OP_IMMED:
			sp++
			s[sp] = p.Immediates[dp]
			dp++
		case OP_NEG:
			s[sp] = -s[sp]
		case OP_ADD:
			s[sp-1] += s[sp]
			sp--
		case OP_SUB:
			s[sp-1] -= s[sp]
			sp--
		case OP_MUL:
			s[sp-1] *= s[sp]
			sp--
		case OP_DIV:
			if s[sp] == 0 {
				return 0, EvalDivByZero
			}
			s[sp-1] /= s[sp]
			sp--
		case OP_POW:
			r, err := power(s[sp-1], s[sp])
			if err != nil {
				return 0, err
			}
			s[sp-1] = r
			sp--
		case OP_ABS:
			s[sp] = math.Abs(s[sp])
		case OP_EXP:
			s[sp] = math.Exp(s[sp])
		case OP_LOG10:
			if s[sp] <= 0 {
				return 0, EvalLogDomain
			}
			s[sp] = math.Log10(s[sp])
		case OP_LOG:
			if s[sp] <= 0 {
				return 0, EvalLogDomain
			}
			s[sp] = math.Log(s[sp])
		case OP_SQRT:
			if s[sp] < 0 {
				return 0, EvalSqrtDomain
			}
			s[sp] = math.Sqrt(s[sp])
		case OP_SINH:
			s[sp] = math.Sinh(s[sp])
		case OP_COSH:
			s[sp] = math.Cosh(s[sp])
		case OP_TANH:
			s[sp] = math.Tanh(s[sp])
		case OP_SIN:
			s[sp] = math.Sin(s[sp])
		case OP_COS:
			s[sp] = math.Cos(s[sp])
		case OP_TAN:
			s[sp] = math.Tan(s[sp])
		case OP_ASIN:
			if s[sp] < -1 || s[sp] > 1 {
				return 0, EvalAsinAcosDomain
			}
			s[sp] = math.Asin(s[sp])
		case OP_ACOS:
			if s[sp] < -1 || s[sp] > 1 {
				return 0, EvalAsinAcosDomain
			}
			s[sp] = math.Acos(s[sp])
		case OP_ATAN:
			s[sp] = math.Atan(s[sp])
		default:
			sp++
			s[sp] = values[op.VarIndex()-1]
		}
	}
	return s[sp], nil
}

// power of a negative base is only defined for integer exponents
func power(x, y float64) (float64, error) {
	if x >= 0 {
		return math.Pow(x, y), nil
	}
	n := math.Floor(y)
	if y-n != 0 {
		return 0, fmt.Errorf("%w: (%g)^(%g)", ErrNegativeBase, x, y)
	}
	return math.Pow(x, n), nil
}
