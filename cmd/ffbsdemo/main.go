// Command ffbsdemo fits a seasonal FFBS model to a noisy sine wave, mirroring
// the reference test_cyclic_sample scenario: a one-dimensional cyclic
// (period-1, i.e. constant-amplitude) seasonal component driven by a
// discounted-evolution, discounted-variance filter, followed by backward
// smoothing and a handful of posterior trajectory samples.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	ffbs "github.com/go-dlm/ffbs"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func main() {
	steps := flag.Int("steps", 200, "number of time steps to simulate")
	period := flag.Float64("period", 20, "seasonal period in steps")
	evoDelta := flag.Float64("evo-discount", 0.98, "state-evolution discount factor")
	obsDelta := flag.Float64("obs-discount", 0.98, "observation-variance discount factor")
	samples := flag.Int("samples", 5, "number of backward-sample trajectories to draw")
	seed := flag.Uint64("seed", 1, "RNG seed")
	flag.Parse()

	T := *steps
	Y := make([]float64, T)
	Frows := make([]float64, T)
	src := rand.NewSource(*seed)
	rnd := rand.New(src)
	for t := 0; t < T; t++ {
		phase := 2 * math.Pi * float64(t) / *period
		f := math.Sin(phase)
		Frows[t] = f
		Y[t] = f + rnd.NormFloat64()*0.5
	}
	F := mat.NewDense(T, 1, Frows)
	G := mat.NewDense(1, 1, []float64{1})
	m0 := mat.NewVecDense(1, []float64{0})
	c0 := mat.NewSymDense(1, []float64{1})

	f, err := ffbs.New(F, G, Y, m0, c0,
		ffbs.WithEvolutionDiscount(*evoDelta),
		ffbs.WithObsDiscount(*obsDelta))
	if err != nil {
		log.Fatalf("ffbsdemo: construct: %v", err)
	}

	if err := f.ForwardFilter(); err != nil {
		log.Fatalf("ffbsdemo: forward filter: %v", err)
	}
	fmt.Printf("ll_sum=%.3f mae=%.4f filtered=%d/%d\n", f.LLSum(), f.MAE(), f.Filtered(), f.T())

	if err := f.BackwardSmooth(); err != nil {
		log.Fatalf("ffbsdemo: backward smooth: %v", err)
	}
	for _, w := range f.SmoothWarnings() {
		log.Printf("ffbsdemo: %s", w)
	}

	last := T - 1
	fmt.Printf("m_%d=%.4f  m*_%d=%.4f  true amplitude coeff target=1.0\n",
		last, f.M(last).AtVec(0), last, f.MStar(last).AtVec(0))

	traj, err := f.BackwardSample(*samples, src)
	if err != nil {
		log.Fatalf("ffbsdemo: backward sample: %v", err)
	}
	fmt.Printf("drew %d trajectories, sample coefficients at t=%d:", *samples, last)
	for k := 0; k < *samples; k++ {
		fmt.Printf(" %.4f", traj.At(last, k).AtVec(0))
	}
	fmt.Println()
}
