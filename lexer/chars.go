package lexer

import (
	"fmt"
	"strings"
)

// Operators are the binary operator characters, in increasing order of precedence
const Operators = "+-*/^"

func IsOperator(c byte) bool {
	return strings.IndexByte(Operators, c) >= 0
}

func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// IsOperandChar is true for characters which may be part of a name or of a number literal
func IsOperandChar(c byte) bool {
	return !IsOperator(c) && c != '(' && c != ')' && !IsSpace(c)
}

// Compact removes white space from the expression. Where white space separates two operand
// characters one blank is kept, so that "1 2" does not turn into "12".
// pos[i] is the index in s of the i-th byte of the result, pos[len(result)] == len(s).
// A kept blank maps to the first character after the white space.
func Compact(s string) (string, []int) {
	buf := make([]byte, 0, len(s))
	pos := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); i++ {
		if !IsSpace(s[i]) {
			buf = append(buf, s[i])
			pos = append(pos, i)
			continue
		}
		j := i
		for j < len(s) && IsSpace(s[j]) {
			j++
		}
		if len(buf) > 0 && j < len(s) && IsOperandChar(buf[len(buf)-1]) && IsOperandChar(s[j]) {
			buf = append(buf, ' ')
			pos = append(pos, j)
		}
		i = j - 1
	}
	pos = append(pos, len(s))
	return string(buf), pos
}

// ReplacePadded replaces every occurrence of old by repl padded with blanks up to the length of old.
// Character positions in the result correspond to those in s
func ReplacePadded(s, old, repl string) string {
	if len(repl) > len(old) {
		panic(fmt.Errorf("ReplacePadded: replacement '%s' is longer than '%s'", repl, old))
	}
	return strings.ReplaceAll(s, old, repl+strings.Repeat(" ", len(old)-len(repl)))
}

// IsBinaryOperator checks if the operator f[j] is a binary operator.
// '+' and '-' are unary when they start the string, follow another operator or '(',
// or are the exponent sign of a number literal like 1.5e-3
func IsBinaryOperator(f string, j int) bool {
	c := f[j]
	if c != '+' && c != '-' {
		return IsOperator(c)
	}
	if j == 0 {
		return false
	}
	prev := f[j-1]
	if IsOperator(prev) || prev == '(' {
		return false
	}
	if j+1 < len(f) && IsDigit(f[j+1]) && isExponentMarker(prev) {
		digits, point := false, false
		k := j - 2
	mantissa:
		for ; k >= 0; k-- {
			switch {
			case IsDigit(f[k]):
				digits = true
			case f[k] == '.' && !point:
				point = true
			default:
				break mantissa
			}
		}
		if digits && (k < 0 || IsOperator(f[k]) || f[k] == '(') {
			return false
		}
	}
	return true
}

func isExponentMarker(c byte) bool {
	switch c {
	case 'e', 'E', 'd', 'D':
		return true
	}
	return false
}
