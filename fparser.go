// Package fparser compiles mathematical expressions given at runtime into bytecode and
// evaluates them for many vectors of variable values.
//
// Usage:
//
//	r, _ := fparser.New(1)
//	if err := r.Parse(1, "sin(x)^2 + 0.5*y", []string{"x", "y"}); err != nil {
//		...
//	}
//	res, err := r.Evaluate(1, []float64{1.2, 3})
//
// Domain errors of the evaluation (division by zero etc.) are returned as engine.EvalError
// and can be told from fatal errors by engine.IsDomainError
package fparser

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/lunfardo314/fparser/engine"
	"github.com/lunfardo314/fparser/ridders"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrInvalidSlot = errors.New("invalid function slot")
	ErrNotCompiled = errors.New("function slot is empty")
	ErrClosed      = errors.New("registry is closed")
)

type slot struct {
	prog        *engine.Program
	machine     *engine.Machine
	fingerprint [32]byte
}

// Registry keeps compiled functions in slots 1..n. It is not thread safe:
// slots share nothing, but each slot owns the scratch stack of its machine
type Registry struct {
	slots   []slot
	log     *zap.SugaredLogger
	lastErr engine.EvalError
	closed  bool
}

type Option func(r *Registry)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// New creates registry with n empty function slots
func New(n int, opts ...Option) (*Registry, error) {
	if n < 0 {
		return nil, fmt.Errorf("wrong number of function slots: %d", n)
	}
	ret := &Registry{
		slots: make([]slot, n),
		log:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.log.Debugf("registry with %d function slots created", n)
	return ret, nil
}

func (r *Registry) Len() int {
	return len(r.slots)
}

func (r *Registry) slot(id int) (*slot, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if id < 1 || id > len(r.slots) {
		return nil, fmt.Errorf("%w: #%d, expected 1..%d", ErrInvalidSlot, id, len(r.slots))
	}
	return &r.slots[id-1], nil
}

func (r *Registry) compiled(id int) (*slot, error) {
	s, err := r.slot(id)
	if err != nil {
		return nil, err
	}
	if s.prog == nil {
		return nil, fmt.Errorf("%w: #%d", ErrNotCompiled, id)
	}
	return s, nil
}

func fingerprint(expr string, vars []string) [32]byte {
	h, _ := blake2b.New256(nil)
	field := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	field(expr)
	for _, v := range vars {
		field(v)
	}
	var ret [32]byte
	copy(ret[:], h.Sum(nil))
	return ret
}

// Parse compiles expression with the variable table into slot id. A failed parse leaves the slot empty
func (r *Registry) Parse(id int, expr string, vars []string) error {
	s, err := r.slot(id)
	if err != nil {
		return err
	}
	fp := fingerprint(expr, vars)
	if s.prog != nil && s.fingerprint == fp {
		r.log.Debugf("function #%d: '%s' is already compiled", id, expr)
		return nil
	}
	*s = slot{}
	prog, err := Compile(expr, vars)
	if err != nil {
		return fmt.Errorf("function #%d: %w", id, err)
	}
	*s = slot{
		prog:        prog,
		machine:     engine.NewMachine(prog.StackSize),
		fingerprint: fp,
	}
	h := prog.Hash()
	r.log.Debugf("function #%d: compiled '%s': code len %d, immediates %d, stack size %d, hash %s",
		id, expr, len(prog.Code), len(prog.Immediates), prog.StackSize, hex.EncodeToString(h[:8]))
	return nil
}

// ParseAll parses exprs[i] into slot i+1, all with the same variable table.
// All expressions are parsed, the errors are combined
func (r *Registry) ParseAll(exprs []string, vars []string) error {
	var err error
	for i, expr := range exprs {
		err = multierr.Append(err, r.Parse(i+1, expr, vars))
	}
	return err
}

// Program returns compiled program of the slot
func (r *Registry) Program(id int) (*engine.Program, error) {
	s, err := r.compiled(id)
	if err != nil {
		return nil, err
	}
	return s.prog, nil
}

// Evaluate evaluates function in slot id. Recoverable errors are engine.EvalError, the result is 0 for any error
func (r *Registry) Evaluate(id int, values []float64) (float64, error) {
	s, err := r.compiled(id)
	if err != nil {
		return 0, err
	}
	res, err := s.machine.Run(s.prog, values)
	r.lastErr = engine.Signal(err)
	if err != nil {
		if r.lastErr == engine.EvalOK {
			return 0, fmt.Errorf("function #%d: %w", id, err)
		}
		return 0, err
	}
	return res, nil
}

// LastError is the signal of the most recent evaluation
func (r *Registry) LastError() engine.EvalError {
	return r.lastErr
}

// Differentiate estimates derivative of the function in slot id with respect to variable #varIndex (1-based)
// at values, starting with step h. Returns the derivative and its error estimate.
// values is used as scratch buffer and restored before return
func (r *Registry) Differentiate(id int, varIndex int, values []float64, h float64) (float64, float64, error) {
	s, err := r.compiled(id)
	if err != nil {
		return 0, 0, err
	}
	if varIndex < 1 || varIndex > len(s.prog.Vars) {
		return 0, 0, fmt.Errorf("function #%d: variable #%d out of range 1..%d", id, varIndex, len(s.prog.Vars))
	}
	if len(values) < len(s.prog.Vars) {
		return 0, 0, fmt.Errorf("function #%d: %w: expected %d values, got %d",
			id, engine.ErrShortValues, len(s.prog.Vars), len(values))
	}
	f := func(x []float64) (float64, error) {
		return r.Evaluate(id, x)
	}
	return ridders.Derivative(f, values, varIndex-1, h)
}

// Close releases all programs. The registry cannot be used afterwards
func (r *Registry) Close() {
	if r.closed {
		return
	}
	r.log.Debugf("registry with %d function slots closed", len(r.slots))
	r.slots = nil
	r.closed = true
}

// ErrorMessage returns text of the evaluation signal, empty string for EvalOK or unknown signals
func ErrorMessage(sig engine.EvalError) string {
	return sig.Message()
}
