package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulatePaths_Shape(t *testing.T) {
	paths := SimulatePaths(NewSource(42), 0.0005, 0.03, 100, 50, 252)

	assert.Len(t, paths, 50)
	for _, p := range paths {
		assert.Len(t, p, 252)
	}
}

func TestSimulatePaths_Deterministic(t *testing.T) {
	a := SimulatePaths(NewSource(42), 0.0005, 0.03, 100, 20, 30)
	b := SimulatePaths(NewSource(42), 0.0005, 0.03, 100, 20, 30)
	c := SimulatePaths(NewSource(7), 0.0005, 0.03, 100, 20, 30)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestSimulatePaths_ZeroSigmaCompounds(t *testing.T) {
	paths := SimulatePaths(NewSource(1), 0.01, 0, 100, 2, 3)

	for _, p := range paths {
		assert.InDelta(t, 101.0, p[0], 1e-9)
		assert.InDelta(t, 102.01, p[1], 1e-9)
		assert.InDelta(t, 100*math.Pow(1.01, 3), p[2], 1e-9)
	}
}

func TestSimulatePaths_Empty(t *testing.T) {
	assert.Empty(t, SimulatePaths(NewSource(1), 0, 0.01, 100, 0, 10))
	assert.Empty(t, SimulatePaths(NewSource(1), 0, 0.01, 100, 10, 0))
}
