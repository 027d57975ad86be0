package markowitz

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is returned when the instruments and the weights do not have the same length.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrInsufficientHistory is returned when there are too few aligned returns to estimate a covariance.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrSingularCovariance is returned when the covariance matrix cannot be inverted.
	ErrSingularCovariance = errors.New("singular covariance matrix")
	// ErrOptimizationFailure is wrapped by every *OptimizationError.
	ErrOptimizationFailure = errors.New("optimization failure")
	// ErrInvalidRange is returned when the frontier return range is degenerate.
	ErrInvalidRange = errors.New("invalid return range")
	// ErrDegenerateNormalization is returned when a vector summing to zero is normalized.
	ErrDegenerateNormalization = errors.New("degenerate normalization")

	// ErrInsufficientData flags a price history too short to produce any return.
	// It is a warning: the accompanying series is valid, only empty.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidPrice is returned for a price that cannot be used as a return base.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrNoData is returned by a HistoryFetcher that has no data for a symbol and range.
	ErrNoData = errors.New("no data")
	// ErrNonPositiveGrowth is returned when a return of -100% or less prevents a geometric mean.
	ErrNonPositiveGrowth = errors.New("non-positive growth factor")
)

// OptimizationError reports why no portfolio could be found for a target return.
type OptimizationError struct {
	Target float64 // Target return that was requested.
	Reason string  // Diagnostic from the solver.
}

func (e *OptimizationError) Error() string {
	return fmt.Sprintf("optimization failure for target return %.6g: %s", e.Target, e.Reason)
}

// Unwrap makes errors.Is(err, ErrOptimizationFailure) true.
func (e *OptimizationError) Unwrap() error { return ErrOptimizationFailure }

func optimizationFailure(target float64, format string, args ...any) error {
	return &OptimizationError{Target: target, Reason: fmt.Sprintf(format, args...)}
}
