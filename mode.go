package dlm

import "gonum.org/v1/gonum/mat"

// EvolutionMode selects how the per-step process-noise covariance is
// determined. It is a tagged variant rather than a boolean flag paired with
// an optional scalar, so that "both W and a discount factor were supplied"
// is unrepresentable rather than merely rejected at runtime.
type EvolutionMode interface {
	evolutionMode()
}

// FixedEvolution applies the same process-noise covariance W at every step:
// R_t = G C_{t-1} G' + W.
type FixedEvolution struct {
	W mat.Symmetric
}

func (FixedEvolution) evolutionMode() {}

// DiscountedEvolution defines the process noise implicitly via a discount
// factor Delta in (0, 1]: R_t = (1/Delta) * G C_{t-1} G'.
type DiscountedEvolution struct {
	Delta float64
}

func (DiscountedEvolution) evolutionMode() {}

// ObservationMode selects whether the scalar observation variance is a
// known constant or an unknown quantity tracked via an inverse-gamma
// discounting scheme.
type ObservationMode interface {
	observationMode()
}

// KnownVariance fixes the observation variance to V for every step.
type KnownVariance struct {
	V float64
}

func (KnownVariance) observationMode() {}

// DiscountedVariance tracks an inverse-gamma posterior (n_t, s_t) over an
// unknown observation variance, discounted by Delta at each step before the
// new observation is assimilated. N0/S0 are the prior degrees of freedom and
// scale.
type DiscountedVariance struct {
	Delta  float64
	N0, S0 float64
}

func (DiscountedVariance) observationMode() {}

const (
	defaultEvoDiscount = 0.99
	defaultObsDiscount = 0.99
	defaultN0          = 1.0
	defaultS0          = 1.0
)
