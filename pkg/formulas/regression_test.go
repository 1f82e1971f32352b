package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinaryLeastSquares(t *testing.T) {
	x := []float64{0.01, -0.02, 0.015, 0.0, -0.005}

	t.Run("exact linear relation", func(t *testing.T) {
		y := make([]float64, len(x))
		for i, v := range x {
			y[i] = 0.001 + 2*v
		}

		fit, err := OrdinaryLeastSquares(x, y)
		require.NoError(t, err)
		assert.InDelta(t, 0.001, fit.Alpha, 1e-12)
		assert.InDelta(t, 2.0, fit.Beta, 1e-12)
		assert.InDelta(t, 1.0, fit.RSquared, 1e-12)
		assert.Equal(t, 5, fit.N)
	})

	t.Run("identical series", func(t *testing.T) {
		fit, err := OrdinaryLeastSquares(x, x)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, fit.Alpha, 1e-12)
		assert.InDelta(t, 1.0, fit.Beta, 1e-12)
		assert.InDelta(t, 1.0, fit.RSquared, 1e-12)
	})

	t.Run("constant dependent series", func(t *testing.T) {
		y := makeReturns(0, len(x))
		fit, err := OrdinaryLeastSquares(x, y)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, fit.Beta, 1e-12)
		assert.Equal(t, 0.0, fit.RSquared)
	})
}

func TestOrdinaryLeastSquares_Errors(t *testing.T) {
	_, err := OrdinaryLeastSquares([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = OrdinaryLeastSquares([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = OrdinaryLeastSquares([]float64{0.01, 0.01, 0.01}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrConstantRegressor)
}
