package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeReturns(value float64, count int) []float64 {
	returns := make([]float64, count)
	for i := range returns {
		returns[i] = value
	}
	return returns
}

func TestMeanAndStdDev(t *testing.T) {
	tests := []struct {
		name   string
		data   []float64
		mean   float64
		stdDev float64
	}{
		{name: "empty", data: []float64{}, mean: 0, stdDev: 0},
		{name: "single value", data: []float64{0.5}, mean: 0.5, stdDev: 0},
		{name: "constant", data: makeReturns(0.01, 10), mean: 0.01, stdDev: 0},
		{name: "textbook sample", data: []float64{2, 4, 4, 4, 5, 5, 7, 9}, mean: 5, stdDev: math.Sqrt(32.0 / 7.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.mean, Mean(tt.data), 1e-12)
			assert.InDelta(t, tt.stdDev, StdDev(tt.data), 1e-12)
			assert.InDelta(t, tt.stdDev*tt.stdDev, Variance(tt.data), 1e-12)
		})
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	data := []float64{0.01, -0.01, 0.01, -0.01}
	expected := StdDev(data) * math.Sqrt(252)
	assert.InDelta(t, expected, AnnualizedVolatility(data), 1e-12)
	assert.Equal(t, 0.0, AnnualizedVolatility([]float64{0.02}))
}

func TestCalculateReturns(t *testing.T) {
	returns := CalculateReturns([]float64{100, 102, 101, 105})
	assert.Len(t, returns, 3)
	assert.InDelta(t, 0.02, returns[0], 1e-12)
	assert.InDelta(t, 101.0/102.0-1, returns[1], 1e-12)
	assert.InDelta(t, 105.0/101.0-1, returns[2], 1e-12)

	assert.Empty(t, CalculateReturns([]float64{100}))
	assert.Empty(t, CalculateReturns(nil))
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.0, WinRate(nil))
	assert.Equal(t, 0.5, WinRate([]float64{0.01, -0.01, 0.02, 0}))
	assert.Equal(t, 0.0, WinRate(makeReturns(0, 5)))
}

func TestNegatives(t *testing.T) {
	assert.Equal(t, []float64{-0.01, -0.03}, Negatives([]float64{0.02, -0.01, 0, -0.03}))
	assert.Empty(t, Negatives([]float64{0, 0.01}))
}
