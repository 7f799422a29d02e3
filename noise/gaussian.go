// Package noise provides a seeded Gaussian draw shared by the FFBS backward
// sampler. It is adapted from the teacher's noise package: the constructor
// now takes an explicit rand.Source rather than seeding from time.Now, so
// that a seeded backward sample call (dlm.FFBS.BackwardSample) stays fully
// reproducible, per spec.md section 9's requirement that the InverseGamma
// and Gaussian draws share one RNG stream.
package noise

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov mat.Symmetric
}

// NewGaussian creates new Gaussian noise with given mean, covariance, and
// RNG source. It returns error if it fails to create Gaussian (a cov that
// is not positive definite, including a singular one).
func NewGaussian(mean []float64, cov mat.Symmetric, src rand.Source) (*Gaussian, error) {
	dist, ok := distmv.NewNormal(mean, cov, src)
	if !ok {
		return nil, fmt.Errorf("Failed to create new Gaussian noise")
	}

	return &Gaussian{
		dist: dist,
		mean: mean,
		cov:  cov,
	}, nil
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mat.Vector {
	r := g.dist.Rand(nil)
	return mat.NewVecDense(len(r), r)
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	return g.cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	return g.mean
}

// Reset re-centers Gaussian noise on a new mean/covariance pair, drawing
// from src from then on; passing the source given to NewGaussian continues
// that source's current draw stream.
func (g *Gaussian) Reset(mean []float64, cov mat.Symmetric, src rand.Source) error {
	dist, ok := distmv.NewNormal(mean, cov, src)
	if !ok {
		return fmt.Errorf("Failed to reset Gaussian noise")
	}
	g.dist, g.mean, g.cov = dist, mean, cov

	return nil
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
