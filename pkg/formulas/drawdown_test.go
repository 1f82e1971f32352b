package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCumulativeGrowth(t *testing.T) {
	// Prices 100, 102, 101, 105: growth of the retained return rows ends at 1.05
	returns := CalculateReturns([]float64{100, 102, 101, 105})
	growth := CumulativeGrowth(returns)

	assert.Len(t, growth, 3)
	assert.InDelta(t, 1.02, growth[0], 1e-12)
	assert.InDelta(t, 1.01, growth[1], 1e-12)
	assert.InDelta(t, 1.05, growth[2], 1e-12)
}

func TestRunningPeak(t *testing.T) {
	assert.Equal(t, []float64{1, 3, 3, 4, 4}, RunningPeak([]float64{1, 3, 2, 4, 0.5}))
	assert.Empty(t, RunningPeak(nil))
}

func TestDrawdowns(t *testing.T) {
	values := []float64{1.0, 1.2, 0.9, 1.2, 1.3}
	dd := Drawdowns(values, RunningPeak(values))

	assert.Equal(t, 0.0, dd[0])
	assert.Equal(t, 0.0, dd[1])
	assert.InDelta(t, -0.25, dd[2], 1e-12)
	assert.Equal(t, 0.0, dd[3], "recovering to the prior peak is exactly zero")
	assert.Equal(t, 0.0, dd[4])

	for _, d := range dd {
		assert.LessOrEqual(t, d, 0.0)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		returns  []float64
		expected float64
	}{
		{name: "empty", returns: nil, expected: 0},
		{name: "only gains", returns: []float64{0.01, 0.02}, expected: 0},
		{name: "single loss", returns: []float64{0.1, -0.5, 0.2}, expected: -0.5},
		{name: "measured from first observation", returns: []float64{-0.1, -0.1}, expected: -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MaxDrawdown(tt.returns), 1e-12)
		})
	}
}
