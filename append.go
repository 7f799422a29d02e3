package dlm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// AppendObservation implements spec.md section 4.4: extend a filter whose
// records are complete through T-1 with one more (F_new, Y_new) pair,
// without revisiting any earlier step. Evolution mode, observation mode and
// G are frozen at construction (spec.md section 9, open question resolved:
// append never re-derives discount factors).
func (f *FFBS) AppendObservation(Fnew mat.Vector, Ynew float64) error {
	if Fnew.Len() != f.n {
		return fieldErr("AppendObservation", "F_new", ErrShapeMismatch)
	}
	if !finiteVector(Fnew) {
		return fieldErr("AppendObservation", "F_new", ErrNonFinite)
	}
	if math.IsInf(Ynew, 0) {
		return fieldErr("AppendObservation", "Y_new", ErrNonFinite)
	}

	row := mat.NewVecDense(f.n, nil)
	row.CopyVec(Fnew)

	f.fRows = append(f.fRows, row)
	f.y = append(f.y, Ynew)

	return f.ForwardFilter()
}
