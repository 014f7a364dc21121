package vec

import "errors"

var (
	// ErrDimensionMismatch indicates two vectors of different arity were combined.
	ErrDimensionMismatch = errors.New("vec: dimension mismatch")

	// ErrDegenerateVector indicates a direction was requested for a zero-length vector.
	ErrDegenerateVector = errors.New("vec: degenerate (zero-length) vector")

	// ErrZeroDivisor indicates a scalar division by zero.
	ErrZeroDivisor = errors.New("vec: division by zero")
)
