// Package numeric supplies the small set of linear-algebra helpers the FFBS
// kernel needs beyond what gonum/mat exposes directly: resymmetrization
// after numerical drift, a PSD check via the symmetric eigendecomposition,
// and an LU-first / SVD-pseudo-inverse-fallback matrix inverse.
//
// Grounded on matrix/matrix.go's ToSymDense/Format helpers (teacher) and on
// rand/rand.go's SVD-based covariance square root (teacher), generalized
// from "square root of a covariance" to "inverse of a possibly-singular
// covariance".
package numeric

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned by Inverse when even the SVD pseudo-inverse
// fallback cannot be computed (factorization failure on non-finite input).
var ErrSingular = errors.New("numeric: matrix could not be inverted")

// Symmetrize returns (m + m')/2 as a SymDense, resolving the numerical drift
// that accumulates in covariance updates over many recursive steps.
func Symmetrize(m mat.Matrix) *mat.SymDense {
	r, _ := m.Dims()
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			sym.SetSym(i, j, (m.At(i, j)+m.At(j, i))/2)
		}
	}
	return sym
}

// IsPSD reports whether m's smallest eigenvalue is >= -eps.
func IsPSD(m mat.Symmetric, eps float64) bool {
	var es mat.EigenSym
	if ok := es.Factorize(m, false); !ok {
		return false
	}
	vals := es.Values(nil)
	return floats.Min(vals) >= -eps
}

// MinEigenvalue returns the smallest eigenvalue of m, or an error if the
// symmetric eigendecomposition fails to converge.
func MinEigenvalue(m mat.Symmetric) (float64, error) {
	var es mat.EigenSym
	if ok := es.Factorize(m, false); !ok {
		return 0, errors.New("numeric: eigendecomposition failed")
	}
	return floats.Min(es.Values(nil)), nil
}

// Inverse computes m^-1, trying a direct inverse first (LU, mirroring
// kalman/kf/kf.go's pyyInv.Inverse(pyy) call) and falling back to an
// SVD-based pseudo-inverse (mirroring rand/rand.go's WithCovN) when m is
// singular or ill-conditioned. The bool return reports whether the
// pseudo-inverse fallback was used, so callers can surface a warning.
func Inverse(m mat.Matrix) (*mat.Dense, bool, error) {
	var direct mat.Dense
	if err := direct.Inverse(m); err == nil {
		return &direct, false, nil
	}

	r, c := m.Dims()
	if r != c {
		return nil, false, ErrSingular
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDFull); !ok {
		return nil, false, ErrSingular
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	vals := svd.Values(nil)

	maxVal := floats.Max(vals)
	tol := float64(r) * maxVal * 2.22e-16
	if maxVal == 0 {
		tol = 1e-12
	}

	sigmaInv := mat.NewDiagDense(len(vals), nil)
	for i, sv := range vals {
		if sv > tol {
			sigmaInv.SetDiag(i, 1/sv)
		}
	}

	var tmp, pinv mat.Dense
	tmp.Mul(&v, sigmaInv)
	pinv.Mul(&tmp, u.T())

	return &pinv, true, nil
}
