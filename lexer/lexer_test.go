package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		v, b, e, ok := ParseNumber("125")
		require.True(t, ok)
		require.EqualValues(t, 125, v)
		require.EqualValues(t, 0, b)
		require.EqualValues(t, 3, e)
	})
	t.Run("2", func(t *testing.T) {
		v, b, e, ok := ParseNumber("  -1.5e-3+x")
		require.True(t, ok)
		require.InDelta(t, -0.0015, v, 1e-15)
		require.EqualValues(t, 2, b)
		require.EqualValues(t, 9, e)
	})
	t.Run("3", func(t *testing.T) {
		v, _, e, ok := ParseNumber("2.5D2*y")
		require.True(t, ok)
		require.EqualValues(t, 250, v)
		require.EqualValues(t, 5, e)
	})
	t.Run("4", func(t *testing.T) {
		v, _, e, ok := ParseNumber(".5)")
		require.True(t, ok)
		require.EqualValues(t, 0.5, v)
		require.EqualValues(t, 2, e)
	})
	t.Run("no mantissa digits", func(t *testing.T) {
		_, _, _, ok := ParseNumber(".e5")
		require.False(t, ok)
		_, _, _, ok = ParseNumber("-")
		require.False(t, ok)
	})
	t.Run("no exponent digits", func(t *testing.T) {
		_, b, e, ok := ParseNumber("1e+x")
		require.False(t, ok)
		require.EqualValues(t, "1e+", "1e+x"[b:e])
		_, _, _, ok = ParseNumber("3E")
		require.False(t, ok)
	})
	t.Run("second point terminates", func(t *testing.T) {
		v, _, e, ok := ParseNumber("1.2.3")
		require.True(t, ok)
		require.EqualValues(t, 1.2, v)
		require.EqualValues(t, 3, e)
	})
	t.Run("out of range", func(t *testing.T) {
		_, _, _, ok := ParseNumber("1e999")
		require.False(t, ok)
	})
}

func TestCompact(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		s, pos := Compact(" sin( x ) +  2 ")
		require.EqualValues(t, "sin(x)+2", s)
		require.EqualValues(t, []int{1, 2, 3, 4, 6, 8, 10, 13, 15}, pos)
	})
	t.Run("keeps separator between operands", func(t *testing.T) {
		s, pos := Compact("1  2")
		require.EqualValues(t, "1 2", s)
		require.EqualValues(t, []int{0, 3, 3, 4}, pos)
	})
	t.Run("empty", func(t *testing.T) {
		s, pos := Compact("   ")
		require.EqualValues(t, "", s)
		require.EqualValues(t, []int{3}, pos)
	})
	t.Run("power synonym", func(t *testing.T) {
		r := ReplacePadded("x**2", "**", "^")
		require.EqualValues(t, "x^ 2", r)
		s, pos := Compact(r)
		require.EqualValues(t, "x^2", s)
		require.EqualValues(t, []int{0, 1, 3, 4}, pos)
	})
	t.Run("longer replacement", func(t *testing.T) {
		require.Panics(t, func() {
			ReplacePadded("a", "a", "bb")
		})
	})
}

func TestBinaryOperator(t *testing.T) {
	t.Run("1", func(t *testing.T) {
		require.False(t, IsBinaryOperator("-x", 0))
		require.True(t, IsBinaryOperator("x-5", 1))
		require.False(t, IsBinaryOperator("x*-5", 2))
		require.False(t, IsBinaryOperator("(-5)", 1))
		require.True(t, IsBinaryOperator("x*5", 1))
	})
	t.Run("exponent sign", func(t *testing.T) {
		require.False(t, IsBinaryOperator("3e-5", 2))
		require.False(t, IsBinaryOperator("x+1.5E+2", 6))
		require.False(t, IsBinaryOperator("(.5d-1)", 4))
		require.True(t, IsBinaryOperator("xe-5", 2))
		require.True(t, IsBinaryOperator("x2e-5", 3))
		require.True(t, IsBinaryOperator("1.2.3e-5", 6))
		require.True(t, IsBinaryOperator("3e-x", 2))
	})
}

func TestNames(t *testing.T) {
	t.Run("functions", func(t *testing.T) {
		fn, n := FunctionIndex("SIN(x)")
		require.EqualValues(t, "sin", Functions[fn])
		require.EqualValues(t, 3, n)
		fn, n = FunctionIndex("log10(x)")
		require.EqualValues(t, "log10", Functions[fn])
		require.EqualValues(t, 5, n)
		fn, _ = FunctionIndex("Log(x)")
		require.EqualValues(t, "log", Functions[fn])
		fn, _ = FunctionIndex("cost+1")
		require.EqualValues(t, -1, fn)
	})
	t.Run("variables", func(t *testing.T) {
		vars := []string{"x1", "X1", "y"}
		k, n := VariableIndex("X1*y", vars)
		require.EqualValues(t, 2, k)
		require.EqualValues(t, 2, n)
		k, n = VariableIndex("z)", vars)
		require.EqualValues(t, 0, k)
		require.EqualValues(t, 1, n)
		k, n = VariableIndex(")", vars)
		require.EqualValues(t, 0, k)
		require.EqualValues(t, 0, n)
	})
	t.Run("check names", func(t *testing.T) {
		require.NoError(t, CheckNames([]string{"x", "cost", "alpha_1"}))
		require.Error(t, CheckNames([]string{"x", "x"}))
		require.Error(t, CheckNames([]string{""}))
		require.Error(t, CheckNames([]string{"a+b"}))
		require.Error(t, CheckNames([]string{"1x"}))
		require.Error(t, CheckNames([]string{"Sqrt"}))
	})
}
