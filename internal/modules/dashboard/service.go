// Package dashboard runs one analytics pass (load, transform, overlay,
// metrics, risk) and assembles the result for the API and CLI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/internal/memo"
	"github.com/aristath/quantdash/internal/modules/metrics"
	"github.com/aristath/quantdash/internal/modules/returns"
	"github.com/aristath/quantdash/internal/modules/risk"
	"github.com/aristath/quantdash/internal/modules/strategy"
	"github.com/aristath/quantdash/internal/utils"
	"github.com/aristath/quantdash/pkg/formulas"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// RSIPeriod is the RSI length shown in the market overview
const RSIPeriod = 14

// MaxCachedRenders bounds the render cache. Every distinct parameter tuple,
// seed included, is a separate entry.
const MaxCachedRenders = 64

var (
	renderTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quantdash_dashboard_render_total",
		Help: "Dashboard renders by outcome",
	}, []string{"outcome"})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "quantdash_dashboard_render_duration_seconds",
		Help:    "Uncached dashboard render duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
	})
)

// Dashboard is the result of one render pass
type Dashboard struct {
	ID          string                     `json:"id"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Params      Params                     `json:"params"`
	Overview    domain.MarketOverview      `json:"overview"`
	Strategy    *domain.PerformanceSummary `json:"strategy"`
	Benchmark   *domain.PerformanceSummary `json:"benchmark"`
	CAGRDelta   *float64                   `json:"cagr_delta"`
	Regression  *domain.RegressionSummary  `json:"regression"`
	Equity      domain.EquityCurves        `json:"equity"`
	Risk        domain.RiskSurface         `json:"risk"`
	Warnings    []string                   `json:"warnings"`
}

// Service renders dashboards
type Service struct {
	loader      domain.SeriesLoader
	transformer *returns.Transformer
	cache       *memo.Cache[cacheKey, *Dashboard]
	defaults    Params
	log         zerolog.Logger
}

// NewService creates a dashboard service. Renders are cached per parameter
// set for cacheTTL.
func NewService(loader domain.SeriesLoader, transformer *returns.Transformer, cacheTTL time.Duration, log zerolog.Logger) *Service {
	if transformer == nil {
		transformer = returns.NewTransformer()
	}
	return &Service{
		loader:      loader,
		transformer: transformer,
		cache:       memo.New[cacheKey, *Dashboard](cacheTTL).WithMaxEntries(MaxCachedRenders),
		defaults:    DefaultParams(),
		log:         log.With().Str("service", "dashboard").Logger(),
	}
}

// WithDefaults replaces the inputs used for omitted request parameters
func (s *Service) WithDefaults(p Params) *Service {
	s.defaults = p
	return s
}

// Defaults returns the inputs used for omitted request parameters
func (s *Service) Defaults() Params {
	return s.defaults
}

// Evictor exposes the render cache for eviction scheduling
func (s *Service) Evictor() memo.Evictor {
	return s.cache
}

// Render runs the full pipeline for p.
//
// Validation failures return ErrInvalidParams. A range with no data returns
// domain.ErrDataUnavailable; a range too short for the rolling windows
// returns domain.ErrInsufficientHistory. Sections that cannot be computed on
// an otherwise valid table are left nil and explained in Warnings.
func (s *Service) Render(ctx context.Context, p Params) (*Dashboard, error) {
	if err := p.Validate(); err != nil {
		renderTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	d, hit, err := s.cache.GetOrLoad(p.key(), func() (*Dashboard, error) {
		return s.render(ctx, p)
	})
	switch {
	case err != nil:
		renderTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	case hit:
		renderTotal.WithLabelValues("cache_hit").Inc()
	default:
		renderTotal.WithLabelValues("rendered").Inc()
	}
	return d, nil
}

// Table returns the strategy table for p without the metrics and risk passes
func (s *Service) Table(ctx context.Context, p Params) (*domain.StrategyTable, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	_, table, err := s.returnsTable(ctx, p)
	if err != nil {
		return nil, err
	}
	return strategy.Apply(p.Strategy, table, p.Lookback)
}

func (s *Service) returnsTable(ctx context.Context, p Params) (*domain.PriceSeries, *domain.ReturnsTable, error) {
	series, err := s.loader.Load(ctx, p.Start, p.End)
	if err != nil {
		return nil, nil, err
	}

	table := s.transformer.Transform(series)
	if table.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: %d aligned observations, need at least %d",
			domain.ErrInsufficientHistory, series.Len(), s.transformer.MinimumObservations())
	}
	return series, table, nil
}

func (s *Service) render(ctx context.Context, p Params) (*Dashboard, error) {
	defer utils.OperationTimer("dashboard_render", s.log, func(d time.Duration) {
		renderDuration.Observe(d.Seconds())
	})()

	series, table, err := s.returnsTable(ctx, p)
	if err != nil {
		return nil, err
	}

	overlay, err := strategy.Apply(p.Strategy, table, p.Lookback)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Params:      p,
		Overview:    overview(series, table),
		Warnings:    []string{},
	}

	benchmarkReturns := table.Returns()
	strategyReturns := overlay.StrategyReturns()

	if d.Benchmark, err = metrics.Performance(benchmarkReturns); err != nil {
		d.warn("benchmark performance", err)
	}
	if d.Strategy, err = metrics.Performance(strategyReturns); err != nil {
		d.warn("strategy performance", err)
	}
	if d.Strategy != nil && d.Benchmark != nil {
		delta := d.Strategy.CAGR - d.Benchmark.CAGR
		d.CAGRDelta = &delta
	}

	if d.Regression, err = metrics.Regression(strategyReturns, benchmarkReturns); err != nil {
		d.warn("regression", err)
	}

	d.Equity = domain.EquityCurves{
		Strategy:  metrics.EquityCurve(strategyReturns),
		Benchmark: metrics.EquityCurve(benchmarkReturns),
	}

	d.Risk = domain.RiskSurface{Window: p.VaRWindow, Confidence: p.Confidence}
	if d.Risk.VaR, err = risk.RollingVaR(benchmarkReturns, p.VaRWindow, p.Confidence); err != nil {
		d.warn("rolling VaR", err)
	} else if len(d.Risk.VaR) == 0 {
		d.Warnings = append(d.Warnings, fmt.Sprintf("rolling VaR: fewer than %d returns", p.VaRWindow))
	}

	ensemble, err := risk.SimulateSeeded(p.Seed, benchmarkReturns, p.Simulations)
	if err != nil {
		d.warn("monte carlo", err)
	} else {
		d.Risk.MonteCarlo = risk.Summarize(ensemble, risk.SamplePathLimit)
	}

	s.log.Info().
		Str("id", d.ID).
		Str("strategy", string(p.Strategy)).
		Int("rows", table.Len()).
		Int("warnings", len(d.Warnings)).
		Msg("Dashboard rendered")

	return d, nil
}

func (d *Dashboard) warn(section string, err error) {
	d.Warnings = append(d.Warnings, fmt.Sprintf("%s: %v", section, err))
}

func overview(series *domain.PriceSeries, table *domain.ReturnsTable) domain.MarketOverview {
	last := table.Last()

	prices := make([]float64, series.Len())
	for i, pt := range series.Points {
		prices[i] = pt.Price
	}

	return domain.MarketOverview{
		AsOf:            last.Date,
		Price:           last.Price,
		Rate:            last.Rate,
		Vol21D:          last.Vol21D,
		CurrentDrawdown: last.Drawdown,
		DaysAnalyzed:    table.Len(),
		RSI14:           formulas.CalculateRSI(prices, RSIPeriod),
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, domain.ErrInsufficientHistory):
		return "insufficient_history"
	default:
		return "error"
	}
}
