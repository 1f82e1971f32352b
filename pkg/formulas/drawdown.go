package formulas

// CumulativeGrowth compounds returns from a base of 1.0.
// out[i] = (1+r[0]) * ... * (1+r[i])
func CumulativeGrowth(returns []float64) []float64 {
	out := make([]float64, len(returns))
	growth := 1.0
	for i, r := range returns {
		growth *= 1 + r
		out[i] = growth
	}
	return out
}

// RunningPeak returns the running maximum of values, inclusive of each index
func RunningPeak(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if i == 0 || v > out[i-1] {
			out[i] = v
		} else {
			out[i] = out[i-1]
		}
	}
	return out
}

// Drawdowns returns value/peak - 1 for each index.
// The result is never positive and is exactly 0 at a new peak.
func Drawdowns(values, peaks []float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if peaks[i] == 0 || values[i] >= peaks[i] {
			out[i] = 0
			continue
		}
		out[i] = values[i]/peaks[i] - 1
	}
	return out
}

// MaxDrawdown returns the most negative drawdown of the compounded return
// stream (0 for an empty or never-declining stream).
//
// Formula: min over t of (cumulative[t] / running_max(cumulative)[t] - 1)
func MaxDrawdown(returns []float64) float64 {
	growth := CumulativeGrowth(returns)
	dd := Drawdowns(growth, RunningPeak(growth))

	worst := 0.0
	for _, d := range dd {
		if d < worst {
			worst = d
		}
	}
	return worst
}
