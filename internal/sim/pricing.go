package sim

import (
	"github.com/shopspring/decimal"

	"fxsim/internal/domain"
)

// Compile-time interface checks.
var _ Pricer = BidAskPricer{}
var _ PositionBuilder = (*TradeBuilder)(nil)

// BidAskPricer derives execution prices from a two-sided quote: entries
// cross the spread (buy at ask, sell at bid) and closes realize the side a
// counterparty would pay (buy positions close at bid, sell at ask).
type BidAskPricer struct{}

// EntryPrice returns the price a new position on the given side would open
// at. A pair absent from the tick prices at zero.
func (BidAskPricer) EntryPrice(tick *domain.Tick, pair string, side domain.Side) decimal.Decimal {
	quote := tick.Prices[pair]
	if side == domain.SideBuy {
		return quote.Ask
	}
	return quote.Bid
}

// CurrentPrice returns the closing valuation for an open position on the
// given side.
func (BidAskPricer) CurrentPrice(tick *domain.Tick, pair string, side domain.Side) decimal.Decimal {
	quote := tick.Prices[pair]
	if side == domain.SideBuy {
		return quote.Bid
	}
	return quote.Ask
}

// Profit returns the realized profit of closing units of pos at closePrice,
// negative for a loss.
func (BidAskPricer) Profit(pos *domain.Position, closePrice decimal.Decimal, units int64) decimal.Decimal {
	diff := closePrice.Sub(pos.EntryPrice)
	if pos.Side == domain.SideSell {
		diff = diff.Neg()
	}
	return diff.Mul(decimal.NewFromInt(units))
}

// TradeBuilder constructs positions from filled orders.
type TradeBuilder struct {
	pricer Pricer
}

// NewTradeBuilder creates a TradeBuilder that prices entries with the given
// Pricer when the order carries no price of its own.
func NewTradeBuilder(pricer Pricer) *TradeBuilder {
	return &TradeBuilder{pricer: pricer}
}

// Build produces the position a filled order opens. Orders with a resolved
// or caller-supplied price enter at that price; otherwise the entry comes
// from the filling tick.
func (b *TradeBuilder) Build(order *domain.Order, tick *domain.Tick) *domain.Position {
	entry := b.pricer.EntryPrice(tick, order.Pair, order.Side)
	if order.Price != nil {
		entry = *order.Price
	}
	return &domain.Position{
		ID:         order.ID,
		Pair:       order.Pair,
		Side:       order.Side,
		Units:      order.Units,
		EntryPrice: entry,
		OpenedAt:   tick.Time,
		Order:      order,
	}
}
