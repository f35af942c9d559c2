package learner

import "errors"

// Error kinds unwound out of Learn. All are fatal: none are recovered
// internally, matching the synchronous, single-threaded control model.
var (
	ErrTransportFailure   = errors.New("learner: transport failure")
	ErrOracleMisbehavior  = errors.New("learner: oracle misbehavior")
	ErrStateBoundExceeded = errors.New("learner: state bound exceeded")
	ErrCancelled          = errors.New("learner: cancelled")
	ErrInvariantViolation = errors.New("learner: invariant violation")
)
