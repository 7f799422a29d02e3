package dlm

// Scorer is the minimal surface a discount grid search needs from a fitted
// model: a completed forward pass and the log-likelihood it accumulated.
// FFBS satisfies it directly; it exists, the way the teacher's top-level
// Filter/Propagator/Observer interfaces did, so that callers (here:
// gridsearch) depend on behavior rather than on the concrete *FFBS type.
type Scorer interface {
	// ForwardFilter runs the forward recursion to completion.
	ForwardFilter() error
	// LLSum returns the accumulated marginal log-likelihood.
	LLSum() float64
}

var _ Scorer = (*FFBS)(nil)
