// Package series loads the aligned index price / reference rate series.
package series

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/internal/memo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Default symbols
const (
	DefaultPriceSymbol = "^NSEI"
	DefaultRateSymbol  = "^TNX"
)

// DefaultCacheTTL is the freshness window of a loaded series
const DefaultCacheTTL = time.Hour

// MaxCachedRanges bounds the number of cached (start, end) pairs
const MaxCachedRanges = 32

// ErrInvalidRange is returned when start is after end
var ErrInvalidRange = errors.New("start date is after end date")

var loadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "quantdash_series_load_total",
	Help: "Series loads by outcome",
}, []string{"outcome"})

// rangeKey identifies one cached series
type rangeKey struct {
	start string
	end   string
}

// Config configures a Loader
type Config struct {
	PriceSymbol string
	RateSymbol  string
	CacheTTL    time.Duration
}

// Loader fetches and aligns the two input series, caching each (start, end)
// pair for CacheTTL.
type Loader struct {
	source      domain.MarketDataSource
	priceSymbol string
	rateSymbol  string
	cache       *memo.Cache[rangeKey, *domain.PriceSeries]
	log         zerolog.Logger
}

// NewLoader creates a new series loader
func NewLoader(source domain.MarketDataSource, cfg Config, log zerolog.Logger) *Loader {
	if cfg.PriceSymbol == "" {
		cfg.PriceSymbol = DefaultPriceSymbol
	}
	if cfg.RateSymbol == "" {
		cfg.RateSymbol = DefaultRateSymbol
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return &Loader{
		source:      source,
		priceSymbol: cfg.PriceSymbol,
		rateSymbol:  cfg.RateSymbol,
		cache:       memo.New[rangeKey, *domain.PriceSeries](cfg.CacheTTL).WithMaxEntries(MaxCachedRanges),
		log:         log.With().Str("component", "series_loader").Logger(),
	}
}

// Evictor exposes the loader's cache for eviction scheduling
func (l *Loader) Evictor() memo.Evictor {
	return l.cache
}

// Load returns the aligned series over the inclusive calendar range.
//
// Only dates on which both symbols have a positive close produce a row.
// An unreachable source or an empty alignment returns ErrDataUnavailable.
// Results are served from cache for the same (start, end) within the TTL;
// errors are not cached.
func (l *Loader) Load(ctx context.Context, start, end time.Time) (*domain.PriceSeries, error) {
	start, end = calendarDate(start), calendarDate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}

	key := rangeKey{start: start.Format(domain.DateLayout), end: end.Format(domain.DateLayout)}

	series, hit, err := l.cache.GetOrLoad(key, func() (*domain.PriceSeries, error) {
		return l.fetch(ctx, start, end)
	})
	switch {
	case err != nil:
		loadTotal.WithLabelValues("error").Inc()
		return nil, err
	case hit:
		loadTotal.WithLabelValues("cache_hit").Inc()
		l.log.Debug().Str("start", key.start).Str("end", key.end).Msg("Series cache hit")
	default:
		loadTotal.WithLabelValues("fetched").Inc()
	}

	return series, nil
}

func (l *Loader) fetch(ctx context.Context, start, end time.Time) (*domain.PriceSeries, error) {
	prices, err := l.source.DailyCloses(ctx, l.priceSymbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrDataUnavailable, l.priceSymbol, err)
	}
	rates, err := l.source.DailyCloses(ctx, l.rateSymbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrDataUnavailable, l.rateSymbol, err)
	}

	points := Align(prices, rates)
	if len(points) == 0 {
		l.log.Warn().
			Str("start", start.Format(domain.DateLayout)).
			Str("end", end.Format(domain.DateLayout)).
			Int("prices", len(prices)).
			Int("rates", len(rates)).
			Msg("No aligned observations for range")
		return nil, fmt.Errorf("%w: no aligned observations between %s and %s",
			domain.ErrDataUnavailable, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}

	l.log.Info().
		Int("rows", len(points)).
		Int("dropped_prices", len(prices)-len(points)).
		Int("dropped_rates", len(rates)-len(points)).
		Msg("Loaded aligned series")

	return &domain.PriceSeries{Start: start, End: end, Points: points}, nil
}

// Align joins two close series on calendar date. Dates missing from either
// side, or carrying a non-positive value, are dropped. The result is sorted
// by date with one row per date (the last observation wins).
func Align(prices, rates []domain.Observation) []domain.PricePoint {
	rateByDate := make(map[string]float64, len(rates))
	for _, r := range rates {
		if positive(r.Value) {
			rateByDate[r.Date.UTC().Format(domain.DateLayout)] = r.Value
		}
	}

	byDate := make(map[string]domain.PricePoint, len(prices))
	for _, p := range prices {
		if !positive(p.Value) {
			continue
		}
		key := p.Date.UTC().Format(domain.DateLayout)
		rate, ok := rateByDate[key]
		if !ok {
			continue
		}
		byDate[key] = domain.PricePoint{Date: calendarDate(p.Date), Price: p.Value, Rate: rate}
	}

	points := make([]domain.PricePoint, 0, len(byDate))
	for _, pt := range byDate {
		points = append(points, pt)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}

// calendarDate truncates t to midnight UTC of its UTC calendar date
func calendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// positive is false for NaN
func positive(v float64) bool {
	return v > 0
}
