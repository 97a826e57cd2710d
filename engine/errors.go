package engine

import (
	"errors"
	"fmt"
)

// EvalError is the recoverable error signal of an evaluation
type EvalError byte

const (
	EvalOK = EvalError(iota)
	EvalDivByZero
	EvalSqrtDomain
	EvalLogDomain
	EvalAsinAcosDomain
)

var evalErrorMessages = [...]string{
	EvalOK:             "",
	EvalDivByZero:      "division by zero",
	EvalSqrtDomain:     "argument of SQRT negative",
	EvalLogDomain:      "argument of LOG not positive",
	EvalAsinAcosDomain: "argument of ASIN or ACOS illegal",
}

// Message is human-readable text of the signal. Empty for EvalOK and unknown signals
func (e EvalError) Message() string {
	if int(e) < len(evalErrorMessages) {
		return evalErrorMessages[e]
	}
	return ""
}

func (e EvalError) Error() string {
	if msg := e.Message(); msg != "" {
		return msg
	}
	return fmt.Sprintf("evaluation error #%d", byte(e))
}

var (
	// ErrNegativeBase is returned for non-integer power of a negative base. It is not recoverable
	ErrNegativeBase = errors.New("non-integer power of a negative base")
	ErrShortValues  = errors.New("value vector is shorter than the variable table")
)

// Signal returns the evaluation signal carried by err, EvalOK if none
func Signal(err error) EvalError {
	var e EvalError
	if errors.As(err, &e) {
		return e
	}
	return EvalOK
}

// IsDomainError is true if err is a recoverable evaluation error
func IsDomainError(err error) bool {
	return Signal(err) != EvalOK
}
