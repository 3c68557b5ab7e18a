// Package sim implements the order-and-position lifecycle of a single
// virtual trading account: pending-order management, per-tick advancement,
// and netting of new positions against opposite-side exposure.
//
// An account is single-threaded by design. Every operation runs to
// completion before the next begins and nothing blocks mid-mutation, so
// callers (typically a backtest loop advancing ticks sequentially) must
// serialize access to one account.
package sim

import (
	"github.com/shopspring/decimal"

	"fxsim/internal/domain"
)

// TickSource supplies the current tick driving fill decisions and closing
// valuations.
type TickSource interface {
	Current() *domain.Tick
}

// Translator converts broker-style wire options to and from the internal
// representation. The conversion is lossless for all known keys and passes
// nested maps through unchanged in shape.
type Translator interface {
	FromWire(wire map[string]any) (*domain.OrderOptions, error)
	ToWire(opts *domain.OrderOptions) map[string]any
}

// Validator checks a candidate order's parameters. It runs before any
// account state changes and returns a *domain.ValidationError on failure.
type Validator interface {
	Validate(pair string, side domain.Side, units int64, typ domain.OrderType, opts *domain.OrderOptions) error
}

// PositionBuilder produces a Position from a filled order and the tick that
// filled it.
type PositionBuilder interface {
	Build(order *domain.Order, tick *domain.Tick) *domain.Position
}

// Pricer computes prices from a tick: the entry price paid when an order
// fills, the current price realized when a position closes, and the profit
// of closing part of a position at that price.
type Pricer interface {
	EntryPrice(tick *domain.Tick, pair string, side domain.Side) decimal.Decimal
	CurrentPrice(tick *domain.Tick, pair string, side domain.Side) decimal.Decimal
	Profit(pos *domain.Position, closePrice decimal.Decimal, units int64) decimal.Decimal
}
