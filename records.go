package dlm

import "gonum.org/v1/gonum/mat"

// records is the struct-of-arrays store of per-step moments: one dense
// buffer per field rather than one struct per time step, so that reductions
// over a single field (mae, ll_sum) and the linear-algebra access pattern of
// the filter/smoother stay contiguous. Every buffer is preallocated with
// capacity T at New and grows by one entry for each step filtered after
// AppendObservation.
type records struct {
	n int // latent state dimension

	a []*mat.VecDense // prior mean
	R []*mat.SymDense // prior covariance
	f []float64       // one-step forecast mean
	q []float64       // one-step forecast variance
	e []float64       // innovation
	A []*mat.VecDense // Kalman gain
	m []*mat.VecDense // posterior mean
	c []*mat.SymDense // posterior covariance

	nStar []float64 // discounted-V only: pre-update degrees of freedom
	ndf   []float64 // discounted-V only: post-update degrees of freedom
	s     []float64 // discounted-V only: scale (posterior mean of V)

	ll      []float64 // per-step log-likelihood contribution
	missing []bool    // true where the observation at this step was NaN

	mStar    []*mat.VecDense // smoothed mean (filled by BackwardSmooth)
	cStar    []*mat.SymDense // smoothed covariance
	smoothed bool

	warnings []string
}

func newRecords(n, capT int) *records {
	return &records{
		n:       n,
		a:       make([]*mat.VecDense, 0, capT),
		R:       make([]*mat.SymDense, 0, capT),
		f:       make([]float64, 0, capT),
		q:       make([]float64, 0, capT),
		e:       make([]float64, 0, capT),
		A:       make([]*mat.VecDense, 0, capT),
		m:       make([]*mat.VecDense, 0, capT),
		c:       make([]*mat.SymDense, 0, capT),
		nStar:   make([]float64, 0, capT),
		ndf:     make([]float64, 0, capT),
		s:       make([]float64, 0, capT),
		ll:      make([]float64, 0, capT),
		missing: make([]bool, 0, capT),
		mStar:   make([]*mat.VecDense, 0, capT),
		cStar:   make([]*mat.SymDense, 0, capT),
	}
}

func (r *records) len() int { return len(r.a) }

func (r *records) push(step stepResult) {
	r.a = append(r.a, step.a)
	r.R = append(r.R, step.R)
	r.f = append(r.f, step.f)
	r.q = append(r.q, step.q)
	r.e = append(r.e, step.e)
	r.A = append(r.A, step.gain)
	r.m = append(r.m, step.m)
	r.c = append(r.c, step.c)
	r.nStar = append(r.nStar, step.nStar)
	r.ndf = append(r.ndf, step.ndf)
	r.s = append(r.s, step.s)
	r.ll = append(r.ll, step.ll)
	r.missing = append(r.missing, step.missing)
	// smoothed fields stay unset (nil/false) until BackwardSmooth runs; keep
	// the slices the same length so index t is always valid across fields.
	r.mStar = append(r.mStar, nil)
	r.cStar = append(r.cStar, nil)
}

// vecCopy returns a defensive copy of v, or nil if v is nil.
func vecCopy(v *mat.VecDense) *mat.VecDense {
	if v == nil {
		return nil
	}
	out := mat.NewVecDense(v.Len(), nil)
	out.CopyVec(v)
	return out
}

// symCopy returns a defensive copy of m, or nil if m is nil.
func symCopy(m *mat.SymDense) *mat.SymDense {
	if m == nil {
		return nil
	}
	out := mat.NewSymDense(m.Symmetric(), nil)
	out.CopySym(m)
	return out
}
