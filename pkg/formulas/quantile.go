package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// QuantileLinear returns the p-quantile of data using linear interpolation
// between the closest order statistics (h = (n-1)p). gonum's LinInterp kind
// interpolates on the empirical CDF and does not match this on small windows.
//
// data does not need to be sorted and is not modified. Returns NaN for empty
// data or p outside [0, 1].
func QuantileLinear(p float64, data []float64) float64 {
	if len(data) == 0 || p < 0 || p > 1 {
		return math.NaN()
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return quantileSorted(p, sorted)
}

func quantileSorted(p float64, sorted []float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)

	loVal := sorted[int(lo)]
	if lo == hi {
		return loVal
	}
	return loVal + (h-lo)*(sorted[int(hi)]-loVal)
}

// RollingQuantile returns the p-quantile of each trailing window.
// ok[i] is false until the window fills.
func RollingQuantile(data []float64, window int, p float64) (out []float64, ok []bool) {
	return rolling(data, window, func(w []float64) float64 {
		return QuantileLinear(p, w)
	})
}

// EmpiricalQuantiles returns the empirical p-quantiles of data for each p.
// Uses gonum's Empirical cumulant kind (lowest value covering fraction p).
func EmpiricalQuantiles(data []float64, ps ...float64) []float64 {
	out := make([]float64, len(ps))
	if len(data) == 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	for i, p := range ps {
		out[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}
	return out
}
