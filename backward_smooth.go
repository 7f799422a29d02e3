package dlm

import (
	"fmt"

	"github.com/go-dlm/ffbs/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

// BackwardSmooth implements spec.md section 4.2: a Rauch-Tung-Striebel-style
// reverse sweep over the already-filtered moments, producing a smoothed
// marginal (m*_t, C*_t) at every step. It refuses to run on fewer than two
// filtered steps, per spec.md section 7.
//
// Grounded directly on smooth/rts/rts.go's B_t = C_t G' R_{t+1}^-1
// recursion, adapted to read moments already stored on the FFBS instead of
// re-propagating a separate system model.
func (f *FFBS) BackwardSmooth() error {
	T := f.rec.len()
	if T < 2 {
		return ErrNotFiltered
	}

	last := T - 1
	f.rec.mStar[last] = vecCopy(f.rec.m[last])
	f.rec.cStar[last] = symCopy(f.rec.c[last])

	for t := T - 2; t >= 0; t-- {
		Ct := f.rec.c[t]
		aNext := f.rec.a[t+1]
		RNext := f.rec.R[t+1]
		mStarNext := f.rec.mStar[t+1]
		cStarNext := f.rec.cStar[t+1]

		ctGt := new(mat.Dense)
		ctGt.Mul(Ct, f.g.T())

		rInv, usedPinv, err := numeric.Inverse(RNext)
		if err != nil {
			return fmt.Errorf("dlm: backward smooth at step %d: %w", t, err)
		}
		if usedPinv {
			f.rec.warnings = append(f.rec.warnings, fmt.Sprintf(
				"step %d: R_%d is singular, used SVD pseudo-inverse", t, t+1))
		}

		B := new(mat.Dense)
		B.Mul(ctGt, rInv)

		diffM := new(mat.VecDense)
		diffM.SubVec(mStarNext, aNext)
		corr := new(mat.VecDense)
		corr.MulVec(B, diffM)
		mStar := new(mat.VecDense)
		mStar.AddVec(f.rec.m[t], corr)

		diffC := new(mat.Dense)
		diffC.Sub(cStarNext, RNext)
		bt := new(mat.Dense)
		bt.Mul(B, diffC)
		bt.Mul(bt, B.T())
		cStarRaw := new(mat.Dense)
		cStarRaw.Add(Ct, bt)

		f.rec.mStar[t] = mStar
		f.rec.cStar[t] = numeric.Symmetrize(cStarRaw)
	}

	f.rec.smoothed = true
	return nil
}
