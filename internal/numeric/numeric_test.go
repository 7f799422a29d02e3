package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSymmetrize(t *testing.T) {
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{1, 2.0001, 1.9999, 3})
	sym := Symmetrize(m)

	assert.InDelta(sym.At(0, 1), sym.At(1, 0), 1e-12)
	assert.InDelta(2.0, sym.At(0, 1), 1e-3)
}

func TestIsPSD(t *testing.T) {
	assert := assert.New(t)

	psd := mat.NewSymDense(2, []float64{2, 0, 0, 2})
	assert.True(IsPSD(psd, 1e-9))

	notPSD := mat.NewSymDense(2, []float64{1, 2, 2, 1})
	assert.False(IsPSD(notPSD, 1e-9))
}

func TestInverseDirect(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	m := mat.NewDense(2, 2, []float64{4, 0, 0, 4})
	inv, usedPinv, err := Inverse(m)
	require.NoError(err)
	assert.False(usedPinv)
	assert.InDelta(0.25, inv.At(0, 0), 1e-9)
}

func TestInverseFallsBackToPseudoInverseOnSingular(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	// rank-deficient: second row is a multiple of the first.
	m := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	inv, usedPinv, err := Inverse(m)
	require.NoError(err)
	assert.True(usedPinv)
	require.NotNil(inv)
}
