// Package returns derives the returns table (simple returns, rolling
// volatility, cumulative growth and drawdown) from an aligned price series.
package returns

import (
	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/pkg/formulas"
)

// Default rolling volatility windows (trading days)
const (
	DefaultShortWindow = 21
	DefaultLongWindow  = 63
)

// Transformer turns a PriceSeries into a ReturnsTable
type Transformer struct {
	shortWindow int
	longWindow  int
}

// NewTransformer creates a transformer with the 21/63-day volatility windows
func NewTransformer() *Transformer {
	return NewTransformerWithWindows(DefaultShortWindow, DefaultLongWindow)
}

// NewTransformerWithWindows creates a transformer with custom volatility windows.
// Windows below 2 are raised to 2 (a sample deviation needs two values).
func NewTransformerWithWindows(short, long int) *Transformer {
	if short < 2 {
		short = 2
	}
	if long < 2 {
		long = 2
	}
	return &Transformer{shortWindow: short, longWindow: long}
}

// MinimumObservations is the number of prices needed for one retained row
func (t *Transformer) MinimumObservations() int {
	return t.maxWindow() + 1
}

func (t *Transformer) maxWindow() int {
	if t.longWindow > t.shortWindow {
		return t.longWindow
	}
	return t.shortWindow
}

// Transform derives the returns table.
//
// The first price has no return and is dropped. Rows without a full window
// for either volatility column are dropped as well, so the table starts at
// price index max(short, long). Cumulative growth compounds the retained
// returns from 1.0; the peak and drawdown follow from it.
//
// A series too short for one full window yields an empty table.
func (t *Transformer) Transform(series *domain.PriceSeries) *domain.ReturnsTable {
	table := &domain.ReturnsTable{Rows: []domain.ReturnRow{}}
	if series.Len() < t.MinimumObservations() {
		return table
	}

	points := series.Points
	prices := make([]float64, len(points))
	rates := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
		rates[i] = p.Rate
	}

	// rets[k] is the return at price index k+1
	rets := formulas.CalculateReturns(prices)
	rateChanges := formulas.CalculateReturns(rates)

	shortVol, shortOK := formulas.RollingAnnualizedVolatility(rets, t.shortWindow)
	longVol, longOK := formulas.RollingAnnualizedVolatility(rets, t.longWindow)

	first := t.maxWindow() - 1
	retained := rets[first:]

	growth := formulas.CumulativeGrowth(retained)
	peaks := formulas.RunningPeak(growth)
	drawdowns := formulas.Drawdowns(growth, peaks)

	table.Rows = make([]domain.ReturnRow, 0, len(retained))
	for j := range retained {
		k := first + j
		if !shortOK[k] || !longOK[k] {
			continue
		}
		point := points[k+1]
		table.Rows = append(table.Rows, domain.ReturnRow{
			Date:       point.Date,
			Price:      point.Price,
			Rate:       point.Rate,
			Return:     rets[k],
			RateChange: rateChanges[k],
			Vol21D:     shortVol[k],
			Vol63D:     longVol[k],
			Cumulative: growth[j],
			Peak:       peaks[j],
			Drawdown:   drawdowns[j],
		})
	}

	return table
}
