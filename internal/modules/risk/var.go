// Package risk computes historical Value-at-Risk and Monte Carlo equity
// simulations over a return stream.
package risk

import (
	"errors"
	"fmt"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/pkg/formulas"
)

// DefaultVaRWindow is the trailing window of the rolling VaR (trading days)
const DefaultVaRWindow = 60

var (
	// ErrInvalidConfidence is returned for a confidence outside (0, 1)
	ErrInvalidConfidence = errors.New("confidence must be strictly between 0 and 1")
	// ErrInvalidWindow is returned for a VaR window below one observation
	ErrInvalidWindow = errors.New("window must be at least 1")
)

// RollingVaR returns the historical VaR of each trailing window: the
// (1 - confidence) quantile of the window's returns, interpolated linearly
// between order statistics. Dates without a full window are omitted, so a
// stream shorter than window gives an empty series.
//
// VaR is reported as a return (typically negative), not a loss magnitude.
func RollingVaR(stream domain.ReturnStream, window int, confidence float64) ([]domain.VaRPoint, error) {
	if confidence <= 0 || confidence >= 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidConfidence, confidence)
	}
	if window < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}

	quantiles, ok := formulas.RollingQuantile(stream.Values(), window, 1-confidence)

	points := make([]domain.VaRPoint, 0, len(stream))
	for i, o := range stream {
		if !ok[i] {
			continue
		}
		points = append(points, domain.VaRPoint{Date: o.Date, VaR: quantiles[i]})
	}

	return points, nil
}
