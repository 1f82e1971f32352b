// Package domain provides core domain models and types.
package domain

import "time"

// TradingDaysPerYear is the annualization constant used by every statistic.
const TradingDaysPerYear = 252

// DateLayout is the calendar date format used for series keys and JSON output.
const DateLayout = "2006-01-02"

// Observation is a single dated value of a time-indexed stream
type Observation struct {
	Date  time.Time `json:"date" msgpack:"date"`
	Value float64   `json:"value" msgpack:"value"`
}

// ReturnStream is an ordered sequence of dated returns
type ReturnStream []Observation

// Values returns the raw return values in order
func (s ReturnStream) Values() []float64 {
	values := make([]float64, len(s))
	for i, o := range s {
		values[i] = o.Value
	}
	return values
}

// InUTC rewrites every date to UTC in place. Decoded cache entries carry the
// local zone, and date keys are formatted in UTC.
func InUTC(observations []Observation) []Observation {
	for i := range observations {
		observations[i].Date = observations[i].Date.UTC()
	}
	return observations
}

// PricePoint is one aligned row of the loaded series
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	Rate  float64   `json:"rate"`
}

// PriceSeries holds index prices and reference rates aligned on shared dates.
// Dates are strictly increasing and no field is missing.
type PriceSeries struct {
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Points []PricePoint `json:"points"`
}

// Len returns the number of aligned rows
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// ReturnRow is one row of the returns table
type ReturnRow struct {
	Date       time.Time `json:"date"`
	Price      float64   `json:"price"`
	Rate       float64   `json:"rate"`
	Return     float64   `json:"return"`
	RateChange float64   `json:"rate_change"`
	Vol21D     float64   `json:"vol_21d"`
	Vol63D     float64   `json:"vol_63d"`
	Cumulative float64   `json:"cumulative"`
	Peak       float64   `json:"peak"`
	Drawdown   float64   `json:"drawdown"`
}

// ReturnsTable holds derived return columns. Every row has full-window data.
type ReturnsTable struct {
	Rows []ReturnRow `json:"rows"`
}

// Len returns the number of rows
func (t *ReturnsTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Returns returns the simple return stream of the table
func (t *ReturnsTable) Returns() ReturnStream {
	if t == nil {
		return ReturnStream{}
	}
	stream := make(ReturnStream, len(t.Rows))
	for i, row := range t.Rows {
		stream[i] = Observation{Date: row.Date, Value: row.Return}
	}
	return stream
}

// Last returns the most recent row, or nil for an empty table
func (t *ReturnsTable) Last() *ReturnRow {
	if t.Len() == 0 {
		return nil
	}
	return &t.Rows[len(t.Rows)-1]
}

// StrategyKind selects how strategy returns are derived
type StrategyKind string

const (
	StrategyMomentum   StrategyKind = "momentum"
	StrategyBuyAndHold StrategyKind = "buy_and_hold"
)

// StrategyRow extends a returns row with the overlay columns.
// Momentum is nil until the lookback window fills; StrategyReturn is nil on
// the first row because no prior position exists.
type StrategyRow struct {
	ReturnRow
	Momentum       *float64 `json:"momentum"`
	Position       int      `json:"position"`
	StrategyReturn *float64 `json:"strategy_return"`
}

// StrategyTable is the output of a strategy overlay
type StrategyTable struct {
	Kind     StrategyKind  `json:"kind"`
	Lookback int           `json:"lookback,omitempty"`
	Rows     []StrategyRow `json:"rows"`
}

// Len returns the number of rows
func (t *StrategyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// StrategyReturns returns every defined strategy return in order
func (t *StrategyTable) StrategyReturns() ReturnStream {
	if t == nil {
		return ReturnStream{}
	}
	stream := make(ReturnStream, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.StrategyReturn == nil {
			continue
		}
		stream = append(stream, Observation{Date: row.Date, Value: *row.StrategyReturn})
	}
	return stream
}

// PerformanceSummary is the fixed set of scalar metrics for one return stream.
// Sharpe and Sortino are 0 when their denominator is zero; the Degenerate
// flags record when that policy applied.
type PerformanceSummary struct {
	CAGR              float64 `json:"cagr"`
	Volatility        float64 `json:"volatility"`
	Sharpe            float64 `json:"sharpe"`
	Sortino           float64 `json:"sortino"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	WinRate           float64 `json:"win_rate"`
	Observations      int     `json:"observations"`
	SharpeDegenerate  bool    `json:"sharpe_degenerate"`
	SortinoDegenerate bool    `json:"sortino_degenerate"`
}

// RegressionSummary is the OLS fit of strategy returns on benchmark returns
type RegressionSummary struct {
	Alpha        float64 `json:"alpha"`
	Beta         float64 `json:"beta"`
	RSquared     float64 `json:"r_squared"`
	Observations int     `json:"observations"`
}

// VaRPoint is one value of the rolling VaR series
type VaRPoint struct {
	Date time.Time `json:"date"`
	VaR  float64   `json:"var"`
}

// PercentileBand is the cross-sectional distribution of simulated paths at one step
type PercentileBand struct {
	Step int     `json:"step"`
	P05  float64 `json:"p05"`
	P50  float64 `json:"p50"`
	P95  float64 `json:"p95"`
}

// MonteCarloEnsemble holds simulated equity paths
type MonteCarloEnsemble struct {
	Mu         float64     `json:"mu"`
	Sigma      float64     `json:"sigma"`
	StressedBy float64     `json:"stressed_by"`
	Steps      int         `json:"steps"`
	Seed       uint64      `json:"seed"`
	Paths      [][]float64 `json:"-"`
}

// MonteCarloSummary is the chartable digest of an ensemble
type MonteCarloSummary struct {
	Mu          float64          `json:"mu"`
	Sigma       float64          `json:"sigma"`
	StressedBy  float64          `json:"stressed_by"`
	PathCount   int              `json:"path_count"`
	Steps       int              `json:"steps"`
	Seed        uint64           `json:"seed"`
	Bands       []PercentileBand `json:"bands"`
	FinalP05    float64          `json:"final_p05"`
	FinalP50    float64          `json:"final_p50"`
	FinalP95    float64          `json:"final_p95"`
	SamplePaths [][]float64      `json:"sample_paths"`
}

// RiskSurface combines the rolling VaR series and the Monte Carlo digest
type RiskSurface struct {
	Window     int                `json:"window"`
	Confidence float64            `json:"confidence"`
	VaR        []VaRPoint         `json:"var"`
	MonteCarlo *MonteCarloSummary `json:"monte_carlo,omitempty"`
}

// MarketOverview is the headline block of a dashboard
type MarketOverview struct {
	AsOf            time.Time `json:"as_of"`
	Price           float64   `json:"price"`
	Rate            float64   `json:"rate"`
	Vol21D          float64   `json:"vol_21d"`
	CurrentDrawdown float64   `json:"current_drawdown"`
	DaysAnalyzed    int       `json:"days_analyzed"`
	RSI14           *float64  `json:"rsi_14"`
}

// EquityCurves are cumulative growth indices for strategy and benchmark
type EquityCurves struct {
	Strategy  []Observation `json:"strategy"`
	Benchmark []Observation `json:"benchmark"`
}
