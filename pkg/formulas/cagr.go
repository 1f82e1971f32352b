package formulas

import "math"

// CalculateCAGR calculates the Compound Annual Growth Rate implied by a stream
// of daily returns.
//
// Formula: CAGR = (prod(1 + r))^(252 / n) - 1
//
// Returns nil when there are no observations (the exponent is undefined) or
// when the compounded growth is negative (a fractional power of a negative
// number has no real value).
func CalculateCAGR(returns []float64) *float64 {
	n := len(returns)
	if n == 0 {
		return nil
	}

	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}

	if growth < 0 {
		return nil
	}

	cagr := math.Pow(growth, float64(TradingDays)/float64(n)) - 1
	return &cagr
}
