// Package strategy overlays trading rules on a returns table.
package strategy

import (
	"errors"
	"fmt"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/pkg/formulas"
)

// DefaultLookback is the momentum window used when none is given
const DefaultLookback = 252

var (
	// ErrInvalidLookback is returned for a lookback below one row
	ErrInvalidLookback = errors.New("lookback must be at least 1")
	// ErrUnknownStrategy is returned by Apply for an unsupported kind
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Momentum applies the trailing-mean momentum rule.
//
// momentum[i] is the mean of the lookback returns ending at row i and is nil
// until the window fills. position[i] is 1 when momentum[i] > 0, otherwise 0
// (an undefined or exactly zero signal stays flat). The strategy return at
// row i is position[i-1] * return[i]; row 0 has none.
func Momentum(table *domain.ReturnsTable, lookback int) (*domain.StrategyTable, error) {
	if lookback < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLookback, lookback)
	}

	out := &domain.StrategyTable{
		Kind:     domain.StrategyMomentum,
		Lookback: lookback,
		Rows:     make([]domain.StrategyRow, table.Len()),
	}
	if table.Len() == 0 {
		return out, nil
	}

	means, ok := formulas.RollingMean(table.Returns().Values(), lookback)

	for i, row := range table.Rows {
		sr := domain.StrategyRow{ReturnRow: row}

		if ok[i] {
			m := means[i]
			sr.Momentum = &m
			if m > 0 {
				sr.Position = 1
			}
		}

		if i > 0 {
			r := 0.0
			if prev := out.Rows[i-1].Position; prev != 0 {
				r = float64(prev) * row.Return
			}
			sr.StrategyReturn = &r
		}

		out.Rows[i] = sr
	}

	return out, nil
}

// BuyAndHold is the always-invested overlay. Its strategy returns are the raw
// returns, row 0 included.
func BuyAndHold(table *domain.ReturnsTable) *domain.StrategyTable {
	out := &domain.StrategyTable{
		Kind: domain.StrategyBuyAndHold,
		Rows: make([]domain.StrategyRow, table.Len()),
	}
	if table.Len() == 0 {
		return out
	}
	for i, row := range table.Rows {
		r := row.Return
		out.Rows[i] = domain.StrategyRow{
			ReturnRow:      row,
			Position:       1,
			StrategyReturn: &r,
		}
	}
	return out
}

// Apply runs the overlay selected by kind. lookback is ignored for buy & hold.
func Apply(kind domain.StrategyKind, table *domain.ReturnsTable, lookback int) (*domain.StrategyTable, error) {
	switch kind {
	case domain.StrategyMomentum:
		return Momentum(table, lookback)
	case domain.StrategyBuyAndHold:
		return BuyAndHold(table), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
}

// ParseKind maps user input to a strategy kind
func ParseKind(s string) (domain.StrategyKind, error) {
	switch s {
	case "", string(domain.StrategyMomentum), "Momentum":
		return domain.StrategyMomentum, nil
	case string(domain.StrategyBuyAndHold), "buy-and-hold", "Buy & Hold":
		return domain.StrategyBuyAndHold, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}
