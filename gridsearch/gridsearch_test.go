package gridsearch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestSearchSmoke(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	const T = 100
	src := rand.NewSource(11)
	rnd := rand.New(src)

	Y := make([]float64, T)
	Frows := make([]float64, T)
	for i := range Y {
		Frows[i] = 1
		Y[i] = rnd.NormFloat64()
	}
	F := mat.NewDense(T, 1, Frows)
	G := mat.NewDense(1, 1, []float64{1})
	m0 := mat.NewVecDense(1, []float64{0})
	c0 := mat.NewSymDense(1, []float64{1})

	evoGrid := []float64{0.90, 0.99}
	obsGrid := []float64{0.90, 0.99}

	result, err := Search(evoGrid, obsGrid, F, G, Y, m0, c0, Config{})
	require.NoError(err)

	assert.Len(result.ScoreMatrix, 2)
	for _, row := range result.ScoreMatrix {
		assert.Len(row, 2)
		for _, v := range row {
			assert.False(math.IsNaN(v))
		}
	}

	best := result.ScoreMatrix[result.BestI][result.BestJ]
	for i := range result.ScoreMatrix {
		for j := range result.ScoreMatrix[i] {
			assert.LessOrEqual(result.ScoreMatrix[i][j], best)
		}
	}

	assert.Contains(evoGrid, result.BestEvo)
	assert.Contains(obsGrid, result.BestObs)
}

func TestSearchRejectsEmptyGrid(t *testing.T) {
	assert := assert.New(t)

	F := mat.NewDense(1, 1, []float64{1})
	G := mat.NewDense(1, 1, []float64{1})
	m0 := mat.NewVecDense(1, []float64{0})
	c0 := mat.NewSymDense(1, []float64{1})

	_, err := Search(nil, []float64{0.9}, F, G, []float64{0.1}, m0, c0, Config{})
	assert.Error(err)
}

func TestSearchAllCandidatesFailYieldsNoViablePair(t *testing.T) {
	assert := assert.New(t)

	F := mat.NewDense(1, 1, []float64{1})
	G := mat.NewDense(1, 1, []float64{1})
	m0 := mat.NewVecDense(1, []float64{0})
	c0 := mat.NewSymDense(1, []float64{1})

	// out-of-range discounts: every candidate fails construction and scores -Inf.
	_, err := Search([]float64{1.5}, []float64{2.0}, F, G, []float64{0.1}, m0, c0, Config{})
	assert.ErrorIs(err, ErrNoViableDiscountPair)
}
