package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingStdDev(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	out, ok := RollingStdDev(data, 3)

	assert.Equal(t, []bool{false, false, true, true, true}, ok)
	for i := 2; i < len(data); i++ {
		assert.InDelta(t, 1.0, out[i], 1e-12)
	}
}

func TestRollingMean_ExactZero(t *testing.T) {
	// Windows whose values cancel must yield an exact zero
	data := []float64{0.1, -0.1, 0.3, -0.3, 0.7}
	out, ok := RollingMean(data, 2)

	assert.False(t, ok[0])
	assert.Equal(t, 0.0, out[1])
	assert.Equal(t, 0.0, out[3])
	assert.True(t, out[4] > 0)
}

func TestRollingAnnualizedVolatility(t *testing.T) {
	data := []float64{0.01, -0.02, 0.03, 0.0}
	out, ok := RollingAnnualizedVolatility(data, 2)

	assert.Equal(t, []bool{false, true, true, true}, ok)
	assert.InDelta(t, StdDev(data[0:2])*math.Sqrt(252), out[1], 1e-12)
	assert.InDelta(t, StdDev(data[2:4])*math.Sqrt(252), out[3], 1e-12)
}

func TestRolling_WindowLargerThanData(t *testing.T) {
	out, ok := RollingStdDev([]float64{1, 2}, 5)
	assert.Len(t, out, 2)
	assert.Equal(t, []bool{false, false}, ok)

	_, ok = RollingMean([]float64{1, 2}, 0)
	assert.Equal(t, []bool{false, false}, ok)
}
