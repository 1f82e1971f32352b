package formulas

// RatioPolicyValue is reported for Sharpe and Sortino when the denominator is
// zero or undefined.
const RatioPolicyValue = 0.0

// CalculateSharpeRatio calculates the annualized Sharpe ratio of daily returns
// with a zero risk-free rate.
//
// Sharpe Ratio Formula:
//
//	Sharpe = mean(r) / std(r) × sqrt(252)
//
// Returns:
//
//	(ratio, true) normally; (RatioPolicyValue, false) when std(r) is zero or
//	there are fewer than two returns
func CalculateSharpeRatio(returns []float64) (float64, bool) {
	if len(returns) < 2 {
		return RatioPolicyValue, false
	}

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return RatioPolicyValue, false
	}

	return Mean(returns) / stdDev * AnnualizationFactor, true
}

// DownsideDeviation returns the annualized sample standard deviation of the
// strictly negative returns, or 0 when fewer than two exist.
func DownsideDeviation(returns []float64) float64 {
	return AnnualizedVolatility(Negatives(returns))
}

// CalculateSortinoRatio calculates the Sortino ratio: annualized mean return
// over annualized downside deviation.
//
// Sortino Formula:
//
//	Sortino = mean(r) × 252 / (std(r | r < 0) × sqrt(252))
//
// Returns:
//
//	(ratio, true) normally; (RatioPolicyValue, false) when the downside
//	deviation is zero or undefined (no or a single negative return)
func CalculateSortinoRatio(returns []float64) (float64, bool) {
	downside := DownsideDeviation(returns)
	if downside <= 0 {
		return RatioPolicyValue, false
	}

	return Mean(returns) * TradingDays / downside, true
}
