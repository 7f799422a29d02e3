// Package gridsearch implements spec.md section 4.5: a Cartesian-product
// search over (evolution-discount, observation-discount) pairs, each scored
// by the marginal log-likelihood of an independent discounted-evolution,
// discounted-V forward filter.
//
// The fan-out is grounded on katalvlaran-lvlath/core's concurrency test
// pattern: a bounded worker pool built from a semaphore channel plus a
// sync.WaitGroup, since the pack carries no dedicated worker-pool library
// and the teacher itself runs everything single-threaded (spec.md section 5
// only requires that scheduling not affect results, which a semaphore-gated
// fan-out with per-cell independent state already guarantees).
package gridsearch

import (
	"errors"
	"fmt"
	"math"
	"sync"

	ffbs "github.com/go-dlm/ffbs"
	"gonum.org/v1/gonum/mat"
)

// ErrNoViableDiscountPair indicates every candidate in the grid failed
// (a construction error or a NumericalInstability during the forward pass)
// and was scored -Inf.
var ErrNoViableDiscountPair = errors.New("gridsearch: no viable discount pair")

// Result holds the full score matrix and the best-scoring pair, ties broken
// by smaller evolution discount then smaller observation discount.
type Result struct {
	ScoreMatrix [][]float64
	BestEvo     float64
	BestObs     float64
	BestI, BestJ int
}

// Config bounds how many filter instances run concurrently. A zero or
// negative value disables the cap recognition and runs every cell
// concurrently.
type Config struct {
	MaxWorkers int
}

// Search implements spec.md section 4.5. evoGrid and obsGrid must be
// non-empty and each value in (0, 1]; that is enforced indirectly by ffbs.New
// rejecting out-of-range discounts, which is scored as -Inf rather than
// returned as a construction error, per spec.md section 7's "grid search
// never propagates per-cell errors" policy.
func Search(evoGrid, obsGrid []float64, F, G mat.Matrix, Y []float64, m0 mat.Vector, c0 mat.Symmetric, cfg Config) (*Result, error) {
	if len(evoGrid) == 0 || len(obsGrid) == 0 {
		return nil, fmt.Errorf("gridsearch: evo_grid and obs_grid must be non-empty")
	}

	rows := len(evoGrid)
	cols := len(obsGrid)
	scores := make([][]float64, rows)
	for i := range scores {
		scores[i] = make([]float64, cols)
	}

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = rows * cols
	}
	sem := make(chan struct{}, maxWorkers)

	var wg sync.WaitGroup
	for i, evo := range evoGrid {
		for j, obs := range obsGrid {
			wg.Add(1)
			sem <- struct{}{}
			go func(i, j int, evo, obs float64) {
				defer wg.Done()
				defer func() { <-sem }()
				scores[i][j] = scoreCell(evo, obs, F, G, Y, m0, c0)
			}(i, j, evo, obs)
		}
	}
	wg.Wait()

	bestI, bestJ := -1, -1
	best := math.Inf(-1)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s := scores[i][j]
			if s > best || (s == best && bestI >= 0 && betterTieBreak(evoGrid[i], obsGrid[j], evoGrid[bestI], obsGrid[bestJ])) {
				best = s
				bestI, bestJ = i, j
			}
		}
	}

	if bestI < 0 || math.IsInf(best, -1) {
		return nil, ErrNoViableDiscountPair
	}

	return &Result{
		ScoreMatrix: scores,
		BestEvo:     evoGrid[bestI],
		BestObs:     obsGrid[bestJ],
		BestI:       bestI,
		BestJ:       bestJ,
	}, nil
}

func betterTieBreak(evo, obs, bestEvo, bestObs float64) bool {
	if evo != bestEvo {
		return evo < bestEvo
	}
	return obs < bestObs
}

// scoreCell depends on dlm.Scorer rather than *dlm.FFBS directly: every
// candidate's forward pass and log-likelihood readout goes through the
// interface, so a cell never reaches for FFBS-only state (smoothed/sampled
// moments) it has no business touching.
func scoreCell(evo, obs float64, F, G mat.Matrix, Y []float64, m0 mat.Vector, c0 mat.Symmetric) float64 {
	f, err := ffbs.New(F, G, Y, m0, c0,
		ffbs.WithEvolutionDiscount(evo),
		ffbs.WithObsDiscount(obs))
	if err != nil {
		return math.Inf(-1)
	}

	var scorer ffbs.Scorer = f
	if err := scorer.ForwardFilter(); err != nil {
		return math.Inf(-1)
	}
	return scorer.LLSum()
}
