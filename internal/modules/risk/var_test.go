package risk

import (
	"math"
	"testing"
	"time"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStream(n int) domain.ReturnStream {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(domain.ReturnStream, n)
	for i := range s {
		s[i] = domain.Observation{
			Date:  start.AddDate(0, 0, i),
			Value: 0.01*math.Sin(float64(i)*1.7) + 0.0003,
		}
	}
	return s
}

func TestRollingVaR_DropsIncompleteWindows(t *testing.T) {
	stream := makeStream(100)

	points, err := RollingVaR(stream, DefaultVaRWindow, 0.95)
	require.NoError(t, err)
	require.Len(t, points, 100-DefaultVaRWindow+1)
	assert.Equal(t, stream[DefaultVaRWindow-1].Date, points[0].Date)
	assert.Equal(t, stream[99].Date, points[len(points)-1].Date)
}

func TestRollingVaR_LinearQuantile(t *testing.T) {
	stream := domain.ReturnStream{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 0.03},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Value: -0.02},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Value: 0.01},
		{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Value: -0.04},
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Value: 0.0},
	}

	points, err := RollingVaR(stream, 5, 0.90)
	require.NoError(t, err)
	require.Len(t, points, 1)
	// sorted: -0.04 -0.02 0 0.01 0.03; h = 4 * 0.1 = 0.4
	assert.InDelta(t, -0.04+0.4*0.02, points[0].VaR, 1e-12)
}

func TestRollingVaR_MonotoneInConfidence(t *testing.T) {
	stream := makeStream(200)

	low, err := RollingVaR(stream, 60, 0.90)
	require.NoError(t, err)
	high, err := RollingVaR(stream, 60, 0.99)
	require.NoError(t, err)

	require.Equal(t, len(low), len(high))
	for i := range low {
		assert.LessOrEqual(t, high[i].VaR, low[i].VaR, "higher confidence is a deeper loss")
	}
}

func TestRollingVaR_ShortStream(t *testing.T) {
	points, err := RollingVaR(makeStream(10), 60, 0.95)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestRollingVaR_InvalidInput(t *testing.T) {
	for _, c := range []float64{0, 1, -0.5, 1.5} {
		_, err := RollingVaR(makeStream(10), 5, c)
		assert.ErrorIs(t, err, ErrInvalidConfidence, "confidence %v", c)
	}

	_, err := RollingVaR(makeStream(10), 0, 0.95)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
