// Package ridders estimates partial derivatives by Ridders' extrapolation of central differences
package ridders

import (
	"errors"
	"fmt"
	"math"
)

const (
	// TableSize is the size of the extrapolation table
	TableSize = 10
	// Shrink is the factor the step is divided by at each refinement
	Shrink = 1.4
	// Safe stops refinement when the error grows by this factor
	Safe = 2.0
)

// ErrZeroStep is returned for a zero initial step
var ErrZeroStep = errors.New("initial step of differentiation must be non-zero")

// Func is a function of a vector of real variables
type Func func(x []float64) (float64, error)

// Derivative estimates partial derivative of f with respect to x[k] starting with step h.
// Returns the derivative and the error estimate. x is used as a scratch buffer, x[k] is
// restored before return. Any error returned by f aborts the estimate
func Derivative(f Func, x []float64, k int, h float64) (float64, float64, error) {
	if h == 0 {
		return 0, 0, ErrZeroStep
	}
	if k < 0 || k >= len(x) {
		return 0, 0, fmt.Errorf("variable index %d out of range [0,%d)", k, len(x))
	}
	x0 := x[k]
	defer func() {
		x[k] = x0
	}()

	central := func(hh float64) (float64, error) {
		x[k] = x0 + hh
		fp, err := f(x)
		if err != nil {
			return 0, err
		}
		x[k] = x0 - hh
		fm, err := f(x)
		if err != nil {
			return 0, err
		}
		return (fp - fm) / (2 * hh), nil
	}

	const shrink2 = Shrink * Shrink
	var a [TableSize][TableSize]float64
	var err error

	hh := h
	if a[0][0], err = central(hh); err != nil {
		return 0, 0, err
	}
	ret := a[0][0]
	errEst := math.MaxFloat64
	for i := 1; i < TableSize; i++ {
		hh /= Shrink
		if a[0][i], err = central(hh); err != nil {
			return 0, 0, err
		}
		fac := shrink2
		// higher orders of extrapolation
		for j := 1; j <= i; j++ {
			a[j][i] = (a[j-1][i]*fac - a[j-1][i-1]) / (fac - 1)
			fac *= shrink2
			errt := math.Max(math.Abs(a[j][i]-a[j-1][i]), math.Abs(a[j][i]-a[j-1][i-1]))
			if errt <= errEst {
				errEst = errt
				ret = a[j][i]
			}
		}
		if math.Abs(a[i][i]-a[i-1][i-1]) >= Safe*errEst {
			break
		}
	}
	return ret, errEst, nil
}
