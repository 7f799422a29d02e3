package dlm

import (
	"math"

	"github.com/go-dlm/ffbs/internal/numeric"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// stepResult is the set of moments computed by a single forward-filter step,
// ready to be pushed onto the records store.
type stepResult struct {
	a     *mat.VecDense
	R     *mat.SymDense
	f     float64
	q     float64
	e     float64
	gain  *mat.VecDense
	m     *mat.VecDense
	c     *mat.SymDense
	nStar float64
	ndf   float64
	s     float64
	ll    float64

	missing bool
}

// priorAt returns the prior mean/covariance feeding step t: the supplied
// (m0, C0) at t=0, otherwise the previous step's posterior.
func (f *FFBS) priorAt(t int) (mat.Vector, mat.Symmetric) {
	if t == 0 {
		return f.m0, f.c0
	}
	return f.rec.m[t-1], f.rec.c[t-1]
}

// stepForward implements spec.md section 4.1: evolve, determine this step's
// observation variance, forecast, update, compute posterior covariance and
// log-likelihood. It mirrors kalman/kf/kf.go's Predict+Update split, folded
// into one call since the FFBS record keeps its own history instead of
// relying on an external propagator/observer model.
func (f *FFBS) stepForward(t int) (stepResult, error) {
	prevM, prevC := f.priorAt(t)

	a := new(mat.VecDense)
	a.MulVec(f.g, prevM)

	p := new(mat.Dense)
	p.Mul(f.g, prevC)
	p.Mul(p, f.g.T())

	var rRaw mat.Matrix
	switch mode := f.evo.(type) {
	case FixedEvolution:
		sum := new(mat.Dense)
		sum.Add(p, mode.W)
		rRaw = sum
	case DiscountedEvolution:
		scaled := new(mat.Dense)
		scaled.Scale(1/mode.Delta, p)
		rRaw = scaled
	}
	R := numeric.Symmetrize(rRaw)

	ft := f.fRows[t]
	af := mat.Dot(ft, a)

	rf := new(mat.VecDense)
	rf.MulVec(R, ft)
	qRaw := mat.Dot(ft, rf)

	var vAt, nStar, prevS float64
	_, discountedV := f.obs.(DiscountedVariance)
	switch mode := f.obs.(type) {
	case KnownVariance:
		vAt = mode.V
	case DiscountedVariance:
		var prevN float64
		if t == 0 {
			prevN, prevS = mode.N0, mode.S0
		} else {
			prevN, prevS = f.rec.ndf[t-1], f.rec.s[t-1]
		}
		nStar = mode.Delta * prevN
		vAt = prevS
	}

	q := qRaw + vAt
	if q <= 0 {
		return stepResult{}, stepErr(t, ErrNumericalInstability)
	}

	y := f.y[t]
	missing := math.IsNaN(y)

	if missing {
		res := stepResult{
			a: a, R: R, f: af, q: q, e: math.NaN(),
			gain: mat.NewVecDense(f.n, nil),
			m:    vecCopy(a), c: symCopy(R),
			missing: true,
		}
		if discountedV {
			res.nStar, res.ndf, res.s = nStar, nStar, prevS
		}
		return res, nil
	}

	e := y - af
	gain := new(mat.VecDense)
	gain.ScaleVec(1/q, rf)

	m := new(mat.VecDense)
	corr := new(mat.VecDense)
	corr.ScaleVec(e, gain)
	m.AddVec(a, corr)

	var C *mat.SymDense
	var ndf, s, ll float64

	switch f.obs.(type) {
	case KnownVariance:
		adj := new(mat.Dense)
		adj.Outer(q, gain, gain)
		cRaw := new(mat.Dense)
		cRaw.Sub(R, adj)
		C = numeric.Symmetrize(cRaw)
		ll = distuv.Normal{Mu: af, Sigma: math.Sqrt(q)}.LogProb(y)
	case DiscountedVariance:
		ndf = nStar + 1
		s = prevS * ((nStar + e*e/q) / ndf)
		adj := new(mat.Dense)
		adj.Outer(q, gain, gain)
		cRaw := new(mat.Dense)
		cRaw.Sub(R, adj)
		cRaw.Scale(s/prevS, cRaw)
		C = numeric.Symmetrize(cRaw)
		ll = distuv.StudentsT{Mu: af, Sigma: math.Sqrt(q), Nu: nStar}.LogProb(y)
	}

	return stepResult{
		a: a, R: R, f: af, q: q, e: e, gain: gain, m: m, c: C,
		nStar: nStar, ndf: ndf, s: s, ll: ll,
	}, nil
}

// ForwardFilter runs the forward recursion over every step not yet
// filtered (all of them, for a freshly constructed FFBS). On a
// NumericalInstability failure it stops, leaving every record computed so
// far intact and inspectable.
func (f *FFBS) ForwardFilter() error {
	for t := f.rec.len(); t < len(f.y); t++ {
		step, err := f.stepForward(t)
		if err != nil {
			if se, ok := err.(*StepError); ok {
				f.failed = se
			}
			return err
		}
		f.rec.push(step)
		f.llSum += step.ll
	}
	return nil
}
