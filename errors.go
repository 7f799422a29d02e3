package dlm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dlm package. Callers should branch on these with
// errors.Is rather than comparing error strings; FieldError and StepError
// both wrap one of these via %w.
var (
	// ErrShapeMismatch indicates an input array disagrees with the declared
	// T (time steps) or n (state dimension).
	ErrShapeMismatch = errors.New("dlm: shape mismatch")
	// ErrInvalidMode indicates both or neither of a mutually exclusive mode
	// pair were supplied (fixed-W vs evolution-discount, known-V vs
	// obs-discount).
	ErrInvalidMode = errors.New("dlm: invalid mode configuration")
	// ErrOutOfRange indicates a discount factor, V, n0 or s0 is outside its
	// valid domain.
	ErrOutOfRange = errors.New("dlm: value out of range")
	// ErrNonFinite indicates a NaN or Inf value where a finite value is
	// required (observations excepted, where NaN means "missing").
	ErrNonFinite = errors.New("dlm: non-finite value")
	// ErrNumericalInstability indicates Q_t <= 0 or a covariance update that
	// could not be completed safely.
	ErrNumericalInstability = errors.New("dlm: numerical instability")
	// ErrNotFiltered indicates backward_smooth/backward_sample was invoked
	// before the forward filter completed at least two steps.
	ErrNotFiltered = errors.New("dlm: forward filter has not produced enough steps")
)

// FieldError reports a construction-time validation failure against a named
// field, wrapping one of the package sentinel errors so callers can branch
// with errors.Is while still getting a field name in the message.
type FieldError struct {
	Op    string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("dlm: %s: field %q: %v", e.Op, e.Field, e.Err)
}

// Unwrap exposes the underlying sentinel so errors.Is(err, ErrShapeMismatch)
// and friends work across FieldError.
func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(op, field string, sentinel error) error {
	return &FieldError{Op: op, Field: field, Err: sentinel}
}

// StepError reports a per-step numerical failure encountered by the forward
// filter. Records computed before the failing step remain intact and are
// inspectable through the FFBS accessors.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("dlm: step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepErr(step int, sentinel error) error {
	return &StepError{Step: step, Err: sentinel}
}
