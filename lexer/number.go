package lexer

import (
	"strconv"
	"strings"
)

// ParseNumber parses the number literal at the start of s.
// Format: [blanks][+|-][digits][.digits][(e|E|d|D)[+|-]digits]
// Returns the value, the offset where the literal begins (after blanks) and the offset where it ends.
// ok is false if the mantissa has no digits, the exponent marker is not followed by digits
// or the literal cannot be represented as float64
func ParseNumber(s string) (val float64, begin, end int, ok bool) {
	var leading, inMantissa, point, expMarker, inExponent, mantissaDigits, exponentDigits bool
	leading = true
	i := 0
scan:
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			if !leading {
				break scan
			}
			begin = i + 1
		case IsDigit(c):
			if leading {
				leading, inMantissa = false, true
			}
			if expMarker {
				expMarker, inExponent = false, true
			}
			if inMantissa {
				mantissaDigits = true
			}
			if inExponent {
				exponentDigits = true
			}
		case c == '+' || c == '-':
			switch {
			case leading:
				leading, inMantissa = false, true
			case expMarker:
				expMarker, inExponent = false, true
			default:
				break scan
			}
		case c == '.':
			switch {
			case leading:
				leading, inMantissa, point = false, true, true
			case inMantissa && !point:
				point = true
			default:
				break scan
			}
		case isExponentMarker(c):
			if !inMantissa {
				break scan
			}
			inMantissa, expMarker = false, true
		default:
			break scan
		}
	}
	end = i
	if !mantissaDigits || ((expMarker || inExponent) && !exponentDigits) {
		return 0, begin, end, false
	}
	txt := strings.Map(func(r rune) rune {
		if r == 'd' || r == 'D' {
			return 'e'
		}
		return r
	}, s[begin:end])
	v, err := strconv.ParseFloat(txt, 64)
	if err != nil {
		return 0, begin, end, false
	}
	return v, begin, end, true
}
