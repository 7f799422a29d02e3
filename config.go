package dlm

import "gonum.org/v1/gonum/mat"

// Option configures an FFBS at construction time. Options are resolved
// together by New, the way katalvlaran-lvlath/builder resolves its WithX
// options: nothing is validated until all options have been collected, so
// the order in which they are supplied never matters.
type Option func(*options)

type options struct {
	w             mat.Symmetric
	evoDiscount   *float64
	v             *float64
	obsDiscount   *float64
	n0, s0        float64
	n0Set, s0Set  bool
}

func newOptions() *options {
	return &options{n0: defaultN0, s0: defaultS0}
}

// WithW selects fixed-evolution-noise mode: the same process-noise
// covariance W is applied at every step. Mutually exclusive with
// WithEvolutionDiscount.
func WithW(w mat.Symmetric) Option {
	return func(o *options) { o.w = w }
}

// WithEvolutionDiscount selects discounted-evolution mode with factor delta.
// Mutually exclusive with WithW. This is the default mode (delta=0.99) when
// neither option is supplied.
func WithEvolutionDiscount(delta float64) Option {
	return func(o *options) { o.evoDiscount = &delta }
}

// WithV selects known-observation-variance mode with constant variance v.
// Mutually exclusive with WithObsDiscount.
func WithV(v float64) Option {
	return func(o *options) { o.v = &v }
}

// WithObsDiscount selects discounted-unknown-variance mode with factor
// delta. Mutually exclusive with WithV. This is the default mode
// (delta=0.99) when neither option is supplied.
func WithObsDiscount(delta float64) Option {
	return func(o *options) { o.obsDiscount = &delta }
}

// WithPriorVariance sets the inverse-gamma prior parameters (n0, s0) used in
// discounted-variance mode. Defaults are n0=1.0, s0=1.0, matching the
// reference implementation.
func WithPriorVariance(n0, s0 float64) Option {
	return func(o *options) {
		o.n0, o.n0Set = n0, true
		o.s0, o.s0Set = s0, true
	}
}

func (o *options) resolve() (EvolutionMode, ObservationMode, error) {
	if o.w != nil && o.evoDiscount != nil {
		return nil, nil, fieldErr("New", "evolution mode", ErrInvalidMode)
	}
	if o.v != nil && o.obsDiscount != nil {
		return nil, nil, fieldErr("New", "observation mode", ErrInvalidMode)
	}

	var evo EvolutionMode
	switch {
	case o.w != nil:
		evo = FixedEvolution{W: o.w}
	case o.evoDiscount != nil:
		evo = DiscountedEvolution{Delta: *o.evoDiscount}
	default:
		evo = DiscountedEvolution{Delta: defaultEvoDiscount}
	}

	var obs ObservationMode
	switch {
	case o.v != nil:
		if o.n0Set || o.s0Set {
			return nil, nil, fieldErr("New", "prior variance", ErrInvalidMode)
		}
		obs = KnownVariance{V: *o.v}
	case o.obsDiscount != nil:
		obs = DiscountedVariance{Delta: *o.obsDiscount, N0: o.n0, S0: o.s0}
	default:
		obs = DiscountedVariance{Delta: defaultObsDiscount, N0: o.n0, S0: o.s0}
	}

	return evo, obs, nil
}
