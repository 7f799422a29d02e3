package dlm

import (
	"github.com/go-dlm/ffbs/internal/numeric"
	"github.com/go-dlm/ffbs/noise"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Trajectories holds k joint posterior draws of the full state path, laid
// out as one VecDense per (step, sample) pair rather than a single flat
// (T, n, k) buffer: callers already consume per-step state vectors
// everywhere else in this package (A, M, MStar...), so the sampler keeps
// that shape instead of introducing a one-off tensor type.
type Trajectories struct {
	t, n, k int
	theta   [][]*mat.VecDense // theta[t][k]
}

// Dims returns (T, n, k).
func (tr *Trajectories) Dims() (int, int, int) { return tr.t, tr.n, tr.k }

// At returns sample k's state vector at step t.
func (tr *Trajectories) At(t, k int) *mat.VecDense { return vecCopy(tr.theta[t][k]) }

// trajGeom is the per-step smoothing gain and base (unscaled) smoothed
// innovation covariance shared across every trajectory, per spec.md section
// 9: the discounted-V per-trajectory draw only rescales a quantity computed
// once.
type trajGeom struct {
	b      *mat.Dense  // B_t = C_t G' R_{t+1}^-1
	baseH  *mat.SymDense // C_t - B_t R_{t+1} B_t' (unscaled)
}

// BackwardSample implements spec.md section 4.3: draw k joint samples of the
// full latent trajectory from the smoothed posterior. Requires at least two
// filtered steps. Grounded on smooth/rts/rts.go's backward recursion,
// generalized from "propagate moments" to "propagate a simulated draw"
// (the standard FFBS simulation smoother), plus distmv.Normal/rand.Rand for
// the Gaussian draws and distuv.Gamma (inverted) for the InverseGamma draw
// on V in discounted-V mode.
func (f *FFBS) BackwardSample(k int, src rand.Source) (*Trajectories, error) {
	T := f.rec.len()
	if T < 2 {
		return nil, ErrNotFiltered
	}
	if k < 1 {
		return nil, fieldErr("BackwardSample", "num_samples", ErrOutOfRange)
	}

	geoms := make([]trajGeom, T-1)
	for t := 0; t < T-1; t++ {
		ctGt := new(mat.Dense)
		ctGt.Mul(f.rec.c[t], f.g.T())

		rInv, usedPinv, err := numeric.Inverse(f.rec.R[t+1])
		if err != nil {
			return nil, stepErr(t, ErrNumericalInstability)
		}
		if usedPinv {
			f.rec.warnings = append(f.rec.warnings, "backward sample: used SVD pseudo-inverse")
		}

		b := new(mat.Dense)
		b.Mul(ctGt, rInv)

		bR := new(mat.Dense)
		bR.Mul(b, f.rec.R[t+1])
		bRbT := new(mat.Dense)
		bRbT.Mul(bR, b.T())

		baseRaw := new(mat.Dense)
		baseRaw.Sub(f.rec.c[t], bRbT)

		geoms[t] = trajGeom{b: b, baseH: numeric.Symmetrize(baseRaw)}
	}

	_, discountedV := f.obs.(DiscountedVariance)
	lastNdf, lastS := f.rec.ndf[T-1], f.rec.s[T-1]

	theta := make([][]*mat.VecDense, T)
	for t := range theta {
		theta[t] = make([]*mat.VecDense, k)
	}

	for sampleIdx := 0; sampleIdx < k; sampleIdx++ {
		scale := 1.0
		if discountedV {
			gamma := distuv.Gamma{Alpha: lastNdf / 2, Beta: lastNdf * lastS / 2, Src: src}
			v := 1 / gamma.Rand()
			scale = v / lastS
		}

		lastCov := scaledSym(f.rec.c[T-1], scale)
		lastDraw, err := drawNormal(f.rec.m[T-1], lastCov, src)
		if err != nil {
			return nil, err
		}
		theta[T-1][sampleIdx] = lastDraw

		for t := T - 2; t >= 0; t-- {
			diff := new(mat.VecDense)
			diff.SubVec(theta[t+1][sampleIdx], f.rec.a[t+1])
			corr := new(mat.VecDense)
			corr.MulVec(geoms[t].b, diff)
			h := new(mat.VecDense)
			h.AddVec(f.rec.m[t], corr)

			H := scaledSym(geoms[t].baseH, scale)

			draw, err := drawNormal(h, H, src)
			if err != nil {
				return nil, stepErr(t, ErrNumericalInstability)
			}
			theta[t][sampleIdx] = draw
		}
	}

	return &Trajectories{t: T, n: f.n, k: k, theta: theta}, nil
}

func scaledSym(m *mat.SymDense, scale float64) *mat.SymDense {
	if scale == 1 {
		return m
	}
	n := m.Symmetric()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, m.At(i, j)*scale)
		}
	}
	return out
}

func drawNormal(mean *mat.VecDense, cov *mat.SymDense, src rand.Source) (*mat.VecDense, error) {
	g, err := noise.NewGaussian(mean.RawVector().Data, cov, src)
	if err != nil {
		return nil, ErrNumericalInstability
	}
	return mat.VecDenseCopyOf(g.Sample()), nil
}
