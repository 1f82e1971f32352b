package returns

import (
	"math"
	"testing"
	"time"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSeries(prices []float64) *domain.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = domain.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Price: p,
			Rate:  4 + 0.01*float64(i%5),
		}
	}
	return &domain.PriceSeries{Start: start, End: start.AddDate(0, 0, len(prices)-1), Points: points}
}

func wavyPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 * (1 + 0.05*math.Sin(float64(i)/3)) * (1 + 0.001*float64(i))
	}
	return prices
}

func TestTransform_DropsRowsWithoutFullWindows(t *testing.T) {
	tr := NewTransformer()
	series := makeSeries(wavyPrices(100))

	table := tr.Transform(series)

	// 100 prices -> 99 returns -> the first 62 lack a 63-day window
	require.Equal(t, 100-DefaultLongWindow, table.Len())
	assert.Equal(t, series.Points[DefaultLongWindow].Date, table.Rows[0].Date)
	assert.Equal(t, series.Points[99].Date, table.Last().Date)

	for _, row := range table.Rows {
		assert.Greater(t, row.Vol21D, 0.0)
		assert.Greater(t, row.Vol63D, 0.0)
		assert.False(t, math.IsNaN(row.Return))
	}
}

func TestTransform_ReturnColumns(t *testing.T) {
	tr := NewTransformerWithWindows(2, 3)
	series := makeSeries([]float64{100, 102, 101, 105, 104, 108})

	table := tr.Transform(series)
	require.Equal(t, 3, table.Len())

	first := table.Rows[0]
	assert.Equal(t, series.Points[3].Date, first.Date)
	assert.Equal(t, 105.0, first.Price)
	assert.InDelta(t, 105.0/101.0-1, first.Return, 1e-12)
	assert.InDelta(t, series.Points[3].Rate/series.Points[2].Rate-1, first.RateChange, 1e-12)

	// growth starts from 1.0 before the first retained row
	assert.InDelta(t, 1+first.Return, first.Cumulative, 1e-12)
	last := table.Rows[2]
	assert.InDelta(t, 108.0/101.0, last.Cumulative, 1e-12)
}

func TestTransform_DrawdownInvariants(t *testing.T) {
	table := NewTransformer().Transform(makeSeries(wavyPrices(300)))
	require.NotZero(t, table.Len())

	maxSoFar := 0.0
	for i, row := range table.Rows {
		assert.LessOrEqual(t, row.Drawdown, 0.0)
		assert.GreaterOrEqual(t, row.Peak, row.Cumulative)
		if i == 0 || row.Cumulative > maxSoFar {
			assert.Equal(t, 0.0, row.Drawdown, "new peak at row %d", i)
			maxSoFar = row.Cumulative
		}
	}
}

func TestTransform_ShortSeries(t *testing.T) {
	tr := NewTransformer()

	for _, n := range []int{0, 1, 10, DefaultLongWindow} {
		table := tr.Transform(makeSeries(wavyPrices(n)))
		assert.NotNil(t, table)
		assert.Equal(t, 0, table.Len(), "n=%d", n)
	}

	assert.Equal(t, 1, tr.Transform(makeSeries(wavyPrices(DefaultLongWindow+1))).Len())
	assert.Equal(t, 0, tr.Transform(nil).Len())
}

func TestNewTransformerWithWindows_Floors(t *testing.T) {
	tr := NewTransformerWithWindows(0, 1)
	assert.Equal(t, 3, tr.MinimumObservations())
}
