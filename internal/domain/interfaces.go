package domain

import (
	"context"
	"time"
)

// MarketDataSource is the market-data provider contract.
// Only the (symbol, range) -> observations mapping matters to the pipeline.
type MarketDataSource interface {
	// DailyCloses returns daily closing values for symbol over [start, end],
	// oldest first. An empty slice with nil error means no data.
	DailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]Observation, error)
}

// SeriesLoader produces an aligned price/rate series for a date range
type SeriesLoader interface {
	Load(ctx context.Context, start, end time.Time) (*PriceSeries, error)
}
