package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSharpeRatio(t *testing.T) {
	tests := []struct {
		name     string
		returns  []float64
		expected float64
		ok       bool
	}{
		{name: "empty", returns: nil, expected: 0, ok: false},
		{name: "single return", returns: []float64{0.01}, expected: 0, ok: false},
		{name: "zero stream", returns: makeReturns(0, 100), expected: 0, ok: false},
		{name: "constant positive", returns: makeReturns(0.001, 100), expected: 0, ok: false},
		{name: "mixed", returns: []float64{0.01, -0.01, 0.02}, expected: 6.9282, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, ok := CalculateSharpeRatio(tt.returns)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, ratio, 1e-3)
		})
	}
}

func TestCalculateSortinoRatio(t *testing.T) {
	tests := []struct {
		name     string
		returns  []float64
		expected float64
		ok       bool
	}{
		{name: "no losses", returns: []float64{0.01, 0.02}, expected: 0, ok: false},
		{name: "one loss", returns: []float64{0.01, -0.02}, expected: 0, ok: false},
		{name: "identical losses", returns: []float64{0.05, -0.01, -0.01}, expected: 0, ok: false},
		{name: "two distinct losses", returns: []float64{0.02, -0.01, -0.03}, expected: -7.4833, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, ok := CalculateSortinoRatio(tt.returns)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, ratio, 1e-3)
		})
	}
}

func TestDownsideDeviation(t *testing.T) {
	assert.Equal(t, 0.0, DownsideDeviation([]float64{0.01, 0.02}))
	assert.InDelta(t, 0.014142*AnnualizationFactor, DownsideDeviation([]float64{0.02, -0.01, -0.03}), 1e-5)
}
