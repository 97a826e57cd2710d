package lexer

import (
	"fmt"
	"strings"
)

// Functions is the fixed set of function names, matched case-insensitively.
// 'log' is the natural logarithm. The order defines the function index
var Functions = [...]string{
	"abs", "exp", "log10", "log", "sqrt", "sinh", "cosh", "tanh",
	"sin", "cos", "tan", "asin", "acos", "atan",
}

// Identifier returns length of the maximal run of operand characters at the start of s
func Identifier(s string) int {
	for i := 0; i < len(s); i++ {
		if !IsOperandChar(s[i]) {
			return i
		}
	}
	return len(s)
}

// FunctionIndex returns index in Functions of the function name which starts s, and the length of the name.
// The name must be the whole identifier, so a variable 'cost' is not taken for 'cos'. Returns -1 if no match
func FunctionIndex(s string) (int, int) {
	n := Identifier(s)
	for i, name := range Functions {
		if strings.EqualFold(s[:n], name) {
			return i, n
		}
	}
	return -1, 0
}

// VariableIndex returns 1-based index in vars of the identifier which starts s (0 if not found)
// and the length of the identifier
func VariableIndex(s string, vars []string) (int, int) {
	n := Identifier(s)
	if n == 0 {
		return 0, 0
	}
	for i, v := range vars {
		if s[:n] == v {
			return i + 1, n
		}
	}
	return 0, n
}

// CheckNames validates a variable table
func CheckNames(vars []string) error {
	seen := make(map[string]struct{}, len(vars))
	for i, v := range vars {
		switch {
		case len(v) == 0:
			return fmt.Errorf("variable #%d: empty name", i+1)
		case Identifier(v) != len(v):
			return fmt.Errorf("variable #%d: invalid name '%s'", i+1, v)
		case IsDigit(v[0]) || v[0] == '.':
			return fmt.Errorf("variable #%d: name '%s' starts like a number", i+1, v)
		}
		if fn, _ := FunctionIndex(v); fn >= 0 {
			return fmt.Errorf("variable #%d: name '%s' is a function name", i+1, v)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("variable #%d: duplicate name '%s'", i+1, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}
