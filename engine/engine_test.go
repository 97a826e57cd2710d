package engine_test

import (
	"errors"
	"math"
	"testing"

	"github.com/lunfardo314/fparser/engine"
	"github.com/stretchr/testify/require"
)

func TestOpcodes(t *testing.T) {
	t.Run("names", func(t *testing.T) {
		t.Logf("%s", engine.OP_IMMED)
		require.EqualValues(t, "OP_ADD(0x02)", engine.OP_ADD.String())
		require.EqualValues(t, "OP_VAR(#3)", engine.VarOpCode(3).String())
		require.EqualValues(t, "OP_VAR", engine.VarOpCode(1).Name())
		require.EqualValues(t, 3, engine.VarOpCode(3).VarIndex())
		require.EqualValues(t, 0, engine.OP_SIN.VarIndex())
	})
	t.Run("functions", func(t *testing.T) {
		require.EqualValues(t, engine.OP_ABS, engine.FunctionOpCode(0))
		require.EqualValues(t, engine.OP_LOG, engine.FunctionOpCode(3))
		require.EqualValues(t, engine.OP_ATAN, engine.FunctionOpCode(13))
		require.Panics(t, func() {
			engine.FunctionOpCode(14)
		})
		require.Panics(t, func() {
			engine.FunctionOpCode(-1)
		})
		require.Panics(t, func() {
			engine.VarOpCode(0)
		})
	})
	t.Run("binary", func(t *testing.T) {
		c, ok := engine.BinaryOpCode('^')
		require.True(t, ok)
		require.EqualValues(t, engine.OP_POW, c)
		_, ok = engine.BinaryOpCode('%')
		require.False(t, ok)
	})
}

func TestAssembler(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		// (x + 2.5) * y
		p := engine.NewAssembler("x", "y").
			Var(1).Immed(2.5).OP(engine.OP_ADD).Var(2).OP(engine.OP_MUL).
			MustAssemble()
		require.EqualValues(t, 5, len(p.Code))
		require.EqualValues(t, []float64{2.5}, p.Immediates)
		require.EqualValues(t, 2, p.StackSize)
		res, err := p.Eval([]float64{1.5, 2})
		require.NoError(t, err)
		require.EqualValues(t, 8, res)
	})
	t.Run("underflow", func(t *testing.T) {
		require.Panics(t, func() {
			engine.NewAssembler().Immed(1).OP(engine.OP_ADD)
		})
		require.Panics(t, func() {
			engine.NewAssembler().OP(engine.OP_NEG)
		})
	})
	t.Run("wrong push", func(t *testing.T) {
		require.Panics(t, func() {
			engine.NewAssembler("x").OP(engine.OP_IMMED)
		})
		require.Panics(t, func() {
			engine.NewAssembler("x").Var(2)
		})
	})
	t.Run("final depth", func(t *testing.T) {
		_, err := engine.NewAssembler().Immed(1).Immed(2).Assemble()
		require.Error(t, err)
		_, err = engine.NewAssembler().Assemble()
		require.Error(t, err)
		require.Panics(t, func() {
			engine.NewAssembler().Immed(1).Immed(2).MustAssemble()
		})
	})
	t.Run("build", func(t *testing.T) {
		p, err := engine.Build([]string{"x"}, func(a *engine.Assembler) {
			a.Var(1).Immed(3).OP(engine.OP_MUL)
		})
		require.NoError(t, err)
		res, err := p.Eval([]float64{2})
		require.NoError(t, err)
		require.EqualValues(t, 6, res)

		p, err = engine.Build(nil, func(a *engine.Assembler) {
			a.Immed(1).OP(engine.OP_SUB)
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "OP_SUB needs 2 operand(s)")
		require.Nil(t, p)

		_, err = engine.Build([]string{"x"}, func(a *engine.Assembler) {
			a.Var(2)
		})
		require.Error(t, err)

		_, err = engine.Build(nil, func(a *engine.Assembler) {
			a.Immed(1).Immed(2)
		})
		require.Error(t, err)
	})
	t.Run("disassemble", func(t *testing.T) {
		p := engine.NewAssembler("x").Immed(2).Var(1).OP(engine.OP_POW).OP(engine.OP_SIN).MustAssemble()
		require.EqualValues(t, "0000 OP_IMMED 2\n0001 OP_VAR #1 (x)\n0002 OP_POW\n0003 OP_SIN\n", engine.Disassemble(p))
	})
	t.Run("hash", func(t *testing.T) {
		p1 := engine.NewAssembler("x").Immed(2).Var(1).OP(engine.OP_ADD).MustAssemble()
		p2 := engine.NewAssembler("y").Immed(2).Var(1).OP(engine.OP_ADD).MustAssemble()
		p3 := engine.NewAssembler("x").Immed(3).Var(1).OP(engine.OP_ADD).MustAssemble()
		require.EqualValues(t, p1.Hash(), p2.Hash())
		require.NotEqualValues(t, p1.Hash(), p3.Hash())
	})
}

func run(t *testing.T, p *engine.Program, values ...float64) (float64, error) {
	t.Helper()
	return engine.NewMachine(p.StackSize).Run(p, values)
}

func unary(c engine.OpCode) *engine.Program {
	return engine.NewAssembler("x").Var(1).OP(c).MustAssemble()
}

func TestRun(t *testing.T) {
	t.Run("arithmetics", func(t *testing.T) {
		// 7 - 12 / (x ^ 2)
		p := engine.NewAssembler("x").
			Immed(7).Immed(12).Var(1).Immed(2).OP(engine.OP_POW).OP(engine.OP_DIV).OP(engine.OP_SUB).
			MustAssemble()
		require.EqualValues(t, 4, p.StackSize)
		res, err := run(t, p, 2)
		require.NoError(t, err)
		require.EqualValues(t, 4, res)
	})
	t.Run("functions", func(t *testing.T) {
		cases := []struct {
			op  engine.OpCode
			arg float64
			exp float64
		}{
			{engine.OP_NEG, 2, -2},
			{engine.OP_ABS, -2, 2},
			{engine.OP_EXP, 1, math.E},
			{engine.OP_LOG10, 1000, 3},
			{engine.OP_LOG, math.E, 1},
			{engine.OP_SQRT, 16, 4},
			{engine.OP_SINH, 0.5, math.Sinh(0.5)},
			{engine.OP_COSH, 0.5, math.Cosh(0.5)},
			{engine.OP_TANH, 0.5, math.Tanh(0.5)},
			{engine.OP_SIN, math.Pi / 2, 1},
			{engine.OP_COS, 0, 1},
			{engine.OP_TAN, 0.5, math.Tan(0.5)},
			{engine.OP_ASIN, 1, math.Pi / 2},
			{engine.OP_ACOS, 1, 0},
			{engine.OP_ATAN, 1, math.Pi / 4},
		}
		for _, c := range cases {
			res, err := run(t, unary(c.op), c.arg)
			require.NoError(t, err, c.op.String())
			require.InDelta(t, c.exp, res, 1e-12, c.op.String())
		}
	})
	t.Run("domain errors", func(t *testing.T) {
		cases := []struct {
			op  engine.OpCode
			arg float64
			sig engine.EvalError
		}{
			{engine.OP_SQRT, -1, engine.EvalSqrtDomain},
			{engine.OP_LOG, 0, engine.EvalLogDomain},
			{engine.OP_LOG10, -3, engine.EvalLogDomain},
			{engine.OP_ASIN, 1.5, engine.EvalAsinAcosDomain},
			{engine.OP_ACOS, -1.01, engine.EvalAsinAcosDomain},
		}
		for _, c := range cases {
			res, err := run(t, unary(c.op), c.arg)
			require.ErrorIs(t, err, c.sig, c.op.String())
			require.True(t, engine.IsDomainError(err))
			require.EqualValues(t, c.sig, engine.Signal(err))
			require.EqualValues(t, 0, res)
		}
	})
	t.Run("division by zero", func(t *testing.T) {
		p := engine.NewAssembler("x").Immed(1).Var(1).OP(engine.OP_DIV).MustAssemble()
		res, err := run(t, p, 0)
		require.ErrorIs(t, err, engine.EvalDivByZero)
		require.EqualValues(t, 0, res)
		res, err = run(t, p, 4)
		require.NoError(t, err)
		require.EqualValues(t, 0.25, res)
	})
	t.Run("power of negative base", func(t *testing.T) {
		p := engine.NewAssembler("x", "y").Var(1).Var(2).OP(engine.OP_POW).MustAssemble()
		res, err := run(t, p, -2, 3)
		require.NoError(t, err)
		require.EqualValues(t, -8, res)
		res, err = run(t, p, -2, -2)
		require.NoError(t, err)
		require.EqualValues(t, 0.25, res)
		res, err = run(t, p, 2, 0.5)
		require.NoError(t, err)
		require.InDelta(t, math.Sqrt2, res, 1e-15)

		res, err = run(t, p, -8, 1.0/3)
		require.ErrorIs(t, err, engine.ErrNegativeBase)
		require.False(t, engine.IsDomainError(err))
		require.EqualValues(t, 0, res)
	})
	t.Run("short values", func(t *testing.T) {
		p := engine.NewAssembler("x", "y").Var(1).Var(2).OP(engine.OP_ADD).MustAssemble()
		_, err := run(t, p, 1)
		require.True(t, errors.Is(err, engine.ErrShortValues))
		// longer vectors are fine
		res, err := run(t, p, 1, 2, 3)
		require.NoError(t, err)
		require.EqualValues(t, 3, res)
	})
	t.Run("machine grows its stack", func(t *testing.T) {
		m := engine.NewMachine(1)
		p := engine.NewAssembler().Immed(1).Immed(2).Immed(3).OP(engine.OP_MUL).OP(engine.OP_ADD).MustAssemble()
		res, err := m.Run(p, nil)
		require.NoError(t, err)
		require.EqualValues(t, 7, res)
	})
}

func TestEvalError(t *testing.T) {
	require.EqualValues(t, "", engine.EvalOK.Message())
	require.EqualValues(t, "division by zero", engine.EvalDivByZero.Message())
	require.EqualValues(t, "", engine.EvalError(77).Message())
	require.EqualValues(t, "evaluation error #77", engine.EvalError(77).Error())
	require.EqualValues(t, engine.EvalOK, engine.Signal(nil))
	require.False(t, engine.IsDomainError(errors.New("other")))
}
