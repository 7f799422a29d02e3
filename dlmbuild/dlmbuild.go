// Package dlmbuild supplies convenience constructors for the evolution and
// design matrices a Dynamic Linear Model is usually built from: polynomial
// (locally constant/linear/quadratic...) growth, cyclic/seasonal components
// via a permutation matrix, and AR(p) design rows. These are the "producers
// of inputs to the core" spec.md section 1 explicitly places out of scope
// for the FFBS engine itself; they are supplemented here from
// original_source/utilities.py because the AR(3) recovery test needs a
// producer of lagged design rows (cmd/ffbsdemo builds its 1x1 G and F
// inline and does not use this package) and the pack's only other domain repo
// (ADGArrio-Influenza_Causality_AR_Project) builds its own VAR design
// matrices by hand rather than as a reusable helper.
package dlmbuild

import "gonum.org/v1/gonum/mat"

// PolynomialGrowth returns the (order+1)x(order+1) evolution matrix for a
// locally polynomial trend of the given order (0 = constant, 1 = linear
// trend, ...), grounded on utilities.py's polynomial_matrix: the Jordan-form
// block with ones on the diagonal and the superdiagonal.
func PolynomialGrowth(order int) *mat.Dense {
	n := order + 1
	g := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		g.Set(i, i, 1)
		if i+1 < n {
			g.Set(i, i+1, 1)
		}
	}
	return g
}

// CyclicPermutation returns the nxn cyclic permutation matrix for a seasonal
// component of period n, grounded on utilities.py's permutation_matrix:
// row i has a single 1 at column (i+1) mod n.
func CyclicPermutation(n int) *mat.Dense {
	g := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		g.Set(i, (i+1)%n, 1)
	}
	return g
}

// ARDesignMatrix builds the (T-p) x p design matrix of lagged values for an
// AR(p) regression from a univariate series y, grounded on
// utilities.py's data_matrix_arp_stack: row t holds [y_{t-1}, ..., y_{t-p}].
func ARDesignMatrix(y []float64, p int) *mat.Dense {
	rows := len(y) - p
	if rows < 1 {
		return mat.NewDense(0, p, nil)
	}
	f := mat.NewDense(rows, p, nil)
	for t := 0; t < rows; t++ {
		for lag := 0; lag < p; lag++ {
			f.Set(t, lag, y[p+t-1-lag])
		}
	}
	return f
}

// ARTargets returns the AR(p) regression targets aligned with
// ARDesignMatrix's rows: y[p:].
func ARTargets(y []float64, p int) []float64 {
	if len(y) <= p {
		return nil
	}
	out := make([]float64, len(y)-p)
	copy(out, y[p:])
	return out
}
