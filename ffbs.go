// Package dlm implements the Forward-Filter / Backward-Smoother /
// Backward-Sampler (FFBS) kernel for a univariate Bayesian Dynamic Linear
// Model: scalar observations, a multivariate latent state, a time-invariant
// evolution matrix and per-step design vectors, under either a fixed or
// discounted evolution-noise regime and either a known or discounted
// observation-variance regime.
//
// It is grounded on github.com/milosgajdos/go-estimate's kalman/kf and
// smooth/rts packages: the same Predict/Update split and struct-of-arrays
// record keeping, generalized to the two discount regimes and to backward
// smoothing/sampling/incremental append.
package dlm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FFBS holds one run's fixed inputs, chosen modes, and the growing
// struct-of-arrays record of filtered/smoothed moments.
type FFBS struct {
	n int // latent state dimension

	g     mat.Matrix
	fRows []*mat.VecDense
	y     []float64

	m0 *mat.VecDense
	c0 *mat.SymDense

	evo EvolutionMode
	obs ObservationMode

	rec    *records
	llSum  float64
	failed *StepError
}

// New validates the fixed inputs and chosen mode options and returns an
// FFBS ready for ForwardFilter. F must be T x n: row t is the design vector
// for step t. Y[t] may be math.NaN() to mark a missing observation.
func New(F mat.Matrix, G mat.Matrix, Y []float64, m0 mat.Vector, c0 mat.Symmetric, opts ...Option) (*FFBS, error) {
	T := len(Y)
	if T < 1 {
		return nil, fieldErr("New", "Y", ErrShapeMismatch)
	}

	fRows, cols, err := squeezeDesign(F, T)
	if err != nil {
		return nil, err
	}
	n := cols
	if n < 1 {
		return nil, fieldErr("New", "F", ErrShapeMismatch)
	}

	gr, gc := G.Dims()
	if gr != n || gc != n {
		return nil, fieldErr("New", "G", ErrShapeMismatch)
	}
	if !finiteMatrix(G) {
		return nil, fieldErr("New", "G", ErrNonFinite)
	}

	if m0.Len() != n {
		return nil, fieldErr("New", "m0", ErrShapeMismatch)
	}
	if !finiteVector(m0) {
		return nil, fieldErr("New", "m0", ErrNonFinite)
	}

	if c0.Symmetric() != n {
		return nil, fieldErr("New", "C0", ErrShapeMismatch)
	}
	if !finiteMatrix(c0) {
		return nil, fieldErr("New", "C0", ErrNonFinite)
	}

	for t, y := range Y {
		if math.IsNaN(y) {
			continue // missing observation, not a validation error
		}
		if math.IsInf(y, 0) {
			return nil, fieldErr("New", "Y", ErrNonFinite)
		}
		_ = t
	}

	opt := newOptions()
	for _, apply := range opts {
		apply(opt)
	}
	evo, obs, err := opt.resolve()
	if err != nil {
		return nil, err
	}
	if err := validateEvolutionMode(evo, n); err != nil {
		return nil, err
	}
	if err := validateObservationMode(obs); err != nil {
		return nil, err
	}

	m0c := mat.NewVecDense(n, nil)
	m0c.CopyVec(m0)
	c0c := mat.NewSymDense(n, nil)
	c0c.CopySym(c0)

	yc := make([]float64, T)
	copy(yc, Y)

	gc2 := mat.DenseCopyOf(G)

	return &FFBS{
		n:     n,
		g:     gc2,
		fRows: fRows,
		y:     yc,
		m0:    m0c,
		c0:    c0c,
		evo:   evo,
		obs:   obs,
		rec:   newRecords(n, T),
	}, nil
}

func validateEvolutionMode(evo EvolutionMode, n int) error {
	switch mode := evo.(type) {
	case FixedEvolution:
		if mode.W == nil || mode.W.Symmetric() != n {
			return fieldErr("New", "W", ErrShapeMismatch)
		}
		if !finiteMatrix(mode.W) {
			return fieldErr("New", "W", ErrNonFinite)
		}
	case DiscountedEvolution:
		if mode.Delta <= 0 || mode.Delta > 1 {
			return fieldErr("New", "evo_discount_factor", ErrOutOfRange)
		}
	}
	return nil
}

func validateObservationMode(obs ObservationMode) error {
	switch mode := obs.(type) {
	case KnownVariance:
		if mode.V <= 0 || math.IsNaN(mode.V) || math.IsInf(mode.V, 0) {
			return fieldErr("New", "V", ErrOutOfRange)
		}
	case DiscountedVariance:
		if mode.Delta <= 0 || mode.Delta > 1 {
			return fieldErr("New", "obs_discount_factor", ErrOutOfRange)
		}
		if mode.N0 <= 0 {
			return fieldErr("New", "n0", ErrOutOfRange)
		}
		if mode.S0 <= 0 {
			return fieldErr("New", "s0", ErrOutOfRange)
		}
	}
	return nil
}

func finiteMatrix(m mat.Matrix) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

func finiteVector(v mat.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		x := v.AtVec(i)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// squeezeDesign normalizes F into one VecDense per time step. F arrives as
// a (T, n) matrix; a producer that built it as (T, n, 1) numpy-style and
// flattened the trailing singleton dimension away before handing it to Go
// ends up with exactly the same (T, n) shape, so there is no
// separate code path to maintain here - accepting a single mat.Matrix shape
// already covers both of spec.md's accepted input shapes.
func squeezeDesign(F mat.Matrix, T int) ([]*mat.VecDense, int, error) {
	rows, cols := F.Dims()
	if rows != T {
		return nil, 0, fieldErr("New", "F", ErrShapeMismatch)
	}
	if !finiteMatrix(F) {
		return nil, 0, fieldErr("New", "F", ErrNonFinite)
	}

	out := make([]*mat.VecDense, T)
	for t := 0; t < T; t++ {
		row := mat.Row(nil, t, F)
		out[t] = mat.NewVecDense(cols, row)
	}
	return out, cols, nil
}

// N returns the latent state dimension.
func (f *FFBS) N() int { return f.n }

// T returns the number of steps currently held (observations supplied at
// construction plus any appended since).
func (f *FFBS) T() int { return len(f.y) }

// Filtered returns the number of steps the forward filter has completed.
func (f *FFBS) Filtered() int { return f.rec.len() }

// LLSum returns the accumulated one-step-ahead marginal log-likelihood over
// all filtered steps.
func (f *FFBS) LLSum() float64 { return f.llSum }

// MAE returns the mean absolute one-step forecast error over filtered,
// non-missing steps.
func (f *FFBS) MAE() float64 {
	var sum float64
	var count int
	for t := 0; t < f.rec.len(); t++ {
		if f.rec.missing[t] {
			continue
		}
		sum += math.Abs(f.rec.e[t])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// A returns a defensive copy of the prior state mean at step t.
func (f *FFBS) A(t int) *mat.VecDense { return vecCopy(f.rec.a[t]) }

// R returns a defensive copy of the prior state covariance at step t.
func (f *FFBS) R(t int) *mat.SymDense { return symCopy(f.rec.R[t]) }

// F returns the one-step forecast mean at step t.
func (f *FFBS) F(t int) float64 { return f.rec.f[t] }

// Q returns the one-step forecast variance at step t.
func (f *FFBS) Q(t int) float64 { return f.rec.q[t] }

// E returns the innovation at step t.
func (f *FFBS) E(t int) float64 { return f.rec.e[t] }

// M returns a defensive copy of the posterior state mean at step t.
func (f *FFBS) M(t int) *mat.VecDense { return vecCopy(f.rec.m[t]) }

// C returns a defensive copy of the posterior state covariance at step t.
func (f *FFBS) C(t int) *mat.SymDense { return symCopy(f.rec.c[t]) }

// S returns the inverse-gamma scale s_t at step t (discounted-V mode only).
func (f *FFBS) S(t int) float64 { return f.rec.s[t] }

// Ndf returns the inverse-gamma degrees of freedom n_t at step t
// (discounted-V mode only).
func (f *FFBS) Ndf(t int) float64 { return f.rec.ndf[t] }

// SmoothWarnings returns any warnings recorded by BackwardSmooth or
// BackwardSample (e.g. a singular R_{t+1} that required the SVD
// pseudo-inverse fallback).
func (f *FFBS) SmoothWarnings() []string { return append([]string(nil), f.rec.warnings...) }

// MStar returns a defensive copy of the smoothed mean at step t. Only valid
// after BackwardSmooth.
func (f *FFBS) MStar(t int) *mat.VecDense { return vecCopy(f.rec.mStar[t]) }

// CStar returns a defensive copy of the smoothed covariance at step t. Only
// valid after BackwardSmooth.
func (f *FFBS) CStar(t int) *mat.SymDense { return symCopy(f.rec.cStar[t]) }
