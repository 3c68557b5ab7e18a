// Package builtins provides built-in strategy implementations that ship
// with fxsim.
package builtins

import (
	"context"

	"fxsim/internal/domain"
	"fxsim/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*SMACross)(nil)

// SMACross implements a simple moving average crossover on tick mid-prices.
// It goes long when the short-period SMA crosses above the long-period SMA
// and short when it crosses below, flipping any open exposure by doubling
// the order units (the account nets the opposite position away).
type SMACross struct {
	pair        string
	units       int64
	shortPeriod int
	longPeriod  int

	mids   []float64
	stance domain.Side // "" until the first signal
}

// NewSMACross creates an SMACross trading the given pair and unit size with
// the specified short and long moving average periods.
func NewSMACross(pair string, units int64, short, long int) *SMACross {
	return &SMACross{
		pair:        pair,
		units:       units,
		shortPeriod: short,
		longPeriod:  long,
	}
}

// Name returns "sma-cross".
func (s *SMACross) Name() string {
	return "sma-cross"
}

// Init resets the price history and stance.
func (s *SMACross) Init(_ context.Context) error {
	s.mids = s.mids[:0]
	s.stance = ""
	return nil
}

// OnTick appends the tick's mid-price and emits a market order when the
// short SMA crosses the long SMA. Ticks without a quote for the strategy's
// pair are ignored.
func (s *SMACross) OnTick(_ context.Context, tick domain.Tick) ([]domain.OrderRequest, error) {
	quote, ok := tick.Prices[s.pair]
	if !ok {
		return nil, nil
	}
	mid := quote.Mid().InexactFloat64()
	s.mids = append(s.mids, mid)
	if len(s.mids) > s.longPeriod {
		s.mids = s.mids[len(s.mids)-s.longPeriod:]
	}
	if len(s.mids) < s.longPeriod {
		return nil, nil
	}

	short := sma(s.mids[len(s.mids)-s.shortPeriod:])
	long := sma(s.mids)

	var side domain.Side
	switch {
	case short > long:
		side = domain.SideBuy
	case short < long:
		side = domain.SideSell
	default:
		return nil, nil
	}
	if side == s.stance {
		return nil, nil
	}

	units := s.units
	if s.stance != "" {
		// Flip: close the existing exposure and open the new side.
		units *= 2
	}
	s.stance = side
	return []domain.OrderRequest{{
		Pair:  s.pair,
		Side:  side,
		Units: units,
		Type:  domain.OrderTypeMarket,
	}}, nil
}

func sma(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
