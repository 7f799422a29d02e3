package dlmbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolynomialGrowth(t *testing.T) {
	assert := assert.New(t)

	g := PolynomialGrowth(1)
	r, c := g.Dims()
	assert.Equal(2, r)
	assert.Equal(2, c)
	assert.Equal(1.0, g.At(0, 0))
	assert.Equal(1.0, g.At(0, 1))
	assert.Equal(0.0, g.At(1, 0))
	assert.Equal(1.0, g.At(1, 1))
}

func TestCyclicPermutation(t *testing.T) {
	assert := assert.New(t)

	g := CyclicPermutation(3)
	assert.Equal(1.0, g.At(0, 1))
	assert.Equal(1.0, g.At(1, 2))
	assert.Equal(1.0, g.At(2, 0))
	assert.Equal(0.0, g.At(0, 0))
}

func TestARDesignMatrix(t *testing.T) {
	assert := assert.New(t)

	y := []float64{1, 2, 3, 4, 5}
	f := ARDesignMatrix(y, 2)
	r, c := f.Dims()
	assert.Equal(3, r)
	assert.Equal(2, c)
	assert.Equal(2.0, f.At(0, 0))
	assert.Equal(1.0, f.At(0, 1))

	targets := ARTargets(y, 2)
	assert.Equal([]float64{3, 4, 5}, targets)
}
