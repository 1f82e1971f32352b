// Package metrics computes performance and regression statistics over
// return streams.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/pkg/formulas"
)

// Performance computes the summary statistics of one return stream.
//
// An empty stream has no CAGR and returns ErrInsufficientHistory. Sharpe and
// Sortino fall back to 0 when their denominator vanishes and the summary
// marks them degenerate.
func Performance(stream domain.ReturnStream) (*domain.PerformanceSummary, error) {
	returns := stream.Values()

	cagr := formulas.CalculateCAGR(returns)
	if cagr == nil {
		if len(returns) == 0 {
			return nil, fmt.Errorf("performance: %w: empty return stream", domain.ErrInsufficientHistory)
		}
		return nil, fmt.Errorf("performance: %w: compounded growth below zero", domain.ErrDegenerateDistribution)
	}

	sharpe, sharpeOK := formulas.CalculateSharpeRatio(returns)
	sortino, sortinoOK := formulas.CalculateSortinoRatio(returns)

	summary := &domain.PerformanceSummary{
		CAGR:              *cagr,
		Volatility:        formulas.AnnualizedVolatility(returns),
		Sharpe:            sharpe,
		Sortino:           sortino,
		MaxDrawdown:       formulas.MaxDrawdown(returns),
		WinRate:           formulas.WinRate(returns),
		Observations:      len(returns),
		SharpeDegenerate:  !sharpeOK,
		SortinoDegenerate: !sortinoOK,
	}

	if !finite(summary.CAGR, summary.Volatility, summary.Sharpe, summary.Sortino, summary.MaxDrawdown) {
		return nil, fmt.Errorf("performance: %w: non-finite statistic", domain.ErrDegenerateDistribution)
	}

	return summary, nil
}

// Regression fits strategy returns on benchmark returns over the dates both
// streams share. Alpha is annualized by 252.
func Regression(strategy, benchmark domain.ReturnStream) (*domain.RegressionSummary, error) {
	x, y := Align(benchmark, strategy)

	fit, err := formulas.OrdinaryLeastSquares(x, y)
	switch {
	case errors.Is(err, formulas.ErrTooFewPoints):
		return nil, fmt.Errorf("regression: %w: %d aligned observations", domain.ErrInsufficientHistory, len(x))
	case errors.Is(err, formulas.ErrConstantRegressor):
		return nil, fmt.Errorf("regression: %w: benchmark returns have zero variance", domain.ErrDegenerateDistribution)
	case err != nil:
		return nil, fmt.Errorf("regression: %w", err)
	}

	summary := &domain.RegressionSummary{
		Alpha:        fit.Alpha * domain.TradingDaysPerYear,
		Beta:         fit.Beta,
		RSquared:     fit.RSquared,
		Observations: fit.N,
	}
	if !finite(summary.Alpha, summary.Beta, summary.RSquared) {
		return nil, fmt.Errorf("regression: %w: non-finite fit", domain.ErrDegenerateDistribution)
	}

	return summary, nil
}

// Align returns the values of a and b on the dates present in both, in the
// order of a.
func Align(a, b domain.ReturnStream) (av, bv []float64) {
	byDate := make(map[string]float64, len(b))
	for _, o := range b {
		byDate[o.Date.Format(domain.DateLayout)] = o.Value
	}

	av = make([]float64, 0, len(a))
	bv = make([]float64, 0, len(a))
	for _, o := range a {
		v, ok := byDate[o.Date.Format(domain.DateLayout)]
		if !ok {
			continue
		}
		av = append(av, o.Value)
		bv = append(bv, v)
	}
	return av, bv
}

// EquityCurve compounds a return stream into a growth index starting at 1.0
func EquityCurve(stream domain.ReturnStream) []domain.Observation {
	growth := formulas.CumulativeGrowth(stream.Values())
	curve := make([]domain.Observation, len(stream))
	for i, o := range stream {
		curve[i] = domain.Observation{Date: o.Date, Value: growth[i]}
	}
	return curve
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
