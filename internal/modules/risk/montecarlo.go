package risk

import (
	"fmt"
	"math/rand/v2"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/pkg/formulas"
)

// Simulation constants
const (
	// StressMultiplier scales the historical volatility of the simulated draws
	StressMultiplier = 3.0
	// Horizon is the number of simulated trading days per path
	Horizon = domain.TradingDaysPerYear
	// BaseValue is the starting level of every path
	BaseValue = 100.0
	// SamplePathLimit bounds the paths carried into a summary
	SamplePathLimit = 100
	// DefaultSeed seeds the generator when callers do not choose one
	DefaultSeed uint64 = 42
)

// Simulate draws sims equity paths of Horizon steps.
//
// Daily returns are Normal(mean(r), StressMultiplier * std(r)) compounded from
// BaseValue. Draws come only from src; the same source state and inputs give
// the same ensemble. Fewer than two returns is ErrInsufficientHistory.
func Simulate(src rand.Source, stream domain.ReturnStream, sims int) (*domain.MonteCarloEnsemble, error) {
	if len(stream) < 2 {
		return nil, fmt.Errorf("monte carlo: %w: %d returns", domain.ErrInsufficientHistory, len(stream))
	}
	if sims < 1 {
		return nil, fmt.Errorf("monte carlo: simulations must be positive, got %d", sims)
	}

	returns := stream.Values()
	mu := formulas.Mean(returns)
	sigma := formulas.StdDev(returns) * StressMultiplier

	return &domain.MonteCarloEnsemble{
		Mu:         mu,
		Sigma:      sigma,
		StressedBy: StressMultiplier,
		Steps:      Horizon,
		Paths:      formulas.SimulatePaths(src, mu, sigma, BaseValue, sims, Horizon),
	}, nil
}

// SimulateSeeded runs Simulate with a fresh generator for seed
func SimulateSeeded(seed uint64, stream domain.ReturnStream, sims int) (*domain.MonteCarloEnsemble, error) {
	ensemble, err := Simulate(formulas.NewSource(seed), stream, sims)
	if err != nil {
		return nil, err
	}
	ensemble.Seed = seed
	return ensemble, nil
}

// Summarize reduces an ensemble to per-step 5/50/95 percentile bands, the
// final-value percentiles and at most sampleLimit sample paths.
func Summarize(ensemble *domain.MonteCarloEnsemble, sampleLimit int) *domain.MonteCarloSummary {
	summary := &domain.MonteCarloSummary{
		Mu:          ensemble.Mu,
		Sigma:       ensemble.Sigma,
		StressedBy:  ensemble.StressedBy,
		PathCount:   len(ensemble.Paths),
		Steps:       ensemble.Steps,
		Seed:        ensemble.Seed,
		Bands:       make([]domain.PercentileBand, 0, ensemble.Steps),
		SamplePaths: [][]float64{},
	}
	if len(ensemble.Paths) == 0 {
		return summary
	}

	column := make([]float64, len(ensemble.Paths))
	for step := 0; step < ensemble.Steps; step++ {
		for i, path := range ensemble.Paths {
			column[i] = path[step]
		}
		q := formulas.EmpiricalQuantiles(column, 0.05, 0.50, 0.95)
		summary.Bands = append(summary.Bands, domain.PercentileBand{
			Step: step + 1,
			P05:  q[0],
			P50:  q[1],
			P95:  q[2],
		})
	}

	if n := len(summary.Bands); n > 0 {
		final := summary.Bands[n-1]
		summary.FinalP05 = final.P05
		summary.FinalP50 = final.P50
		summary.FinalP95 = final.P95
	}

	if sampleLimit > len(ensemble.Paths) {
		sampleLimit = len(ensemble.Paths)
	}
	if sampleLimit > 0 {
		// copied so the summary does not retain the full ensemble
		summary.SamplePaths = append([][]float64(nil), ensemble.Paths[:sampleLimit]...)
	}

	return summary
}
