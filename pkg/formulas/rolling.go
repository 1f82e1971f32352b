package formulas

// RollingStdDev returns the sample standard deviation of each trailing window.
// out[i] covers data[i-window+1 : i+1]; ok[i] is false until the window fills.
func RollingStdDev(data []float64, window int) (out []float64, ok []bool) {
	return rolling(data, window, StdDev)
}

// RollingMean returns the mean of each trailing window.
// Each window is summed afresh so an exactly-zero mean stays exactly zero.
func RollingMean(data []float64, window int) (out []float64, ok []bool) {
	return rolling(data, window, Mean)
}

// RollingAnnualizedVolatility is RollingStdDev scaled by sqrt(252)
func RollingAnnualizedVolatility(data []float64, window int) ([]float64, []bool) {
	out, ok := RollingStdDev(data, window)
	for i := range out {
		if ok[i] {
			out[i] *= AnnualizationFactor
		}
	}
	return out, ok
}

func rolling(data []float64, window int, fn func([]float64) float64) ([]float64, []bool) {
	out := make([]float64, len(data))
	ok := make([]bool, len(data))
	if window <= 0 {
		return out, ok
	}

	for i := window - 1; i < len(data); i++ {
		out[i] = fn(data[i-window+1 : i+1])
		ok[i] = true
	}

	return out, ok
}
