package domain

import "errors"

// Error kinds surfaced by the analytics pipeline. Callers match them with
// errors.Is; every stage wraps them with context.
var (
	// ErrDataUnavailable means the source was unreachable or returned nothing
	// for the requested range.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInsufficientHistory means there are fewer observations than a
	// computation needs (rolling windows, CAGR, regression).
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrDegenerateDistribution means a ratio needed non-zero variance and got none.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
)
