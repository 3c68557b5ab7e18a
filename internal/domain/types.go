// Package domain defines the core types shared across the fxsim platform:
// price ticks, orders, positions, and the results of order submissions.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Enums
// ---------------------------------------------------------------------------

// Side is the direction of an order or position. Units are always positive;
// the side conveys direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType identifies how an order executes.
type OrderType string

const (
	OrderTypeMarket          OrderType = "market"
	OrderTypeLimit           OrderType = "limit"
	OrderTypeStop            OrderType = "stop"
	OrderTypeMarketIfTouched OrderType = "market_if_touched"
)

// TimeInForce controls how long an order remains active.
type TimeInForce string

const (
	TIFFillOrKill    TimeInForce = "FOK"
	TIFGoodTilCancel TimeInForce = "GTC"
	TIFGoodTilDate   TimeInForce = "GTD"
	TIFImmediate     TimeInForce = "IOC"
)

// PositionFillDefault and TriggerDefault are the broker-style default values
// inserted when the caller leaves positionFill or triggerCondition unset.
const (
	PositionFillDefault = "DEFAULT"
	TriggerDefault      = "DEFAULT"
)

// ---------------------------------------------------------------------------
// Ticks
// ---------------------------------------------------------------------------

// Price is a two-sided quote for one pair.
type Price struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}

// Mid returns the quote midpoint.
func (p Price) Mid() decimal.Decimal {
	return p.Bid.Add(p.Ask).Div(decimal.NewFromInt(2))
}

// Tick is a timestamped price observation for one or more pairs. Ticks drive
// fill decisions and closing valuations; their timestamps are the simulated
// clock (logical, not wall-clock).
type Tick struct {
	Time   time.Time
	Prices map[string]Price
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// Order is a pending or just-created order. IDs are decimal strings of a
// per-account incrementing counter, so numeric comparison of IDs gives
// creation order.
type Order struct {
	ID        string
	Pair      string
	Side      Side
	Units     int64
	Type      OrderType
	Price     *decimal.Decimal // nil for market orders before resolution
	CreatedAt time.Time

	// Optional broker-style properties.
	TimeInForce            TimeInForce
	PositionFill           string
	TriggerCondition       string
	ClientExtensions       map[string]any
	TakeProfitOnFill       map[string]any
	StopLossOnFill         map[string]any
	TrailingStopLossOnFill map[string]any
	TradeClientExtensions  map[string]any
	GTDTime                *time.Time
	PriceBound             *decimal.Decimal
}

// Clone returns a deep copy. Everything handed back to callers goes through
// Clone so internal state can never be observed or mutated from outside.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Price = cloneDecimal(o.Price)
	c.PriceBound = cloneDecimal(o.PriceBound)
	c.GTDTime = cloneTime(o.GTDTime)
	c.ClientExtensions = CloneMap(o.ClientExtensions)
	c.TakeProfitOnFill = CloneMap(o.TakeProfitOnFill)
	c.StopLossOnFill = CloneMap(o.StopLossOnFill)
	c.TrailingStopLossOnFill = CloneMap(o.TrailingStopLossOnFill)
	c.TradeClientExtensions = CloneMap(o.TradeClientExtensions)
	return &c
}

// OrderRequest is a caller-facing order submission.
type OrderRequest struct {
	Pair    string
	Side    Side
	Units   int64
	Type    OrderType
	Options map[string]any // wire-form options, see sim.WireTranslator
}

// ---------------------------------------------------------------------------
// Positions and trades
// ---------------------------------------------------------------------------

// Position is an open position. Units are strictly positive while the
// position is held; netting decrements them in place and removes the
// position when they reach zero.
type Position struct {
	ID         string
	Pair       string
	Side       Side
	Units      int64
	EntryPrice decimal.Decimal
	OpenedAt   time.Time

	// Order is the originating order. Netting keeps its unit count in sync
	// with the units actually opened.
	Order *Order
}

// Clone returns a deep copy, including the originating order.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	c := *p
	c.Order = p.Order.Clone()
	return &c
}

// ClosedTrade is an immutable snapshot of a position fully closed by
// netting, valued at the tick current at close time.
type ClosedTrade struct {
	ID     string
	Units  int64
	Price  decimal.Decimal
	Time   time.Time
	Profit *decimal.Decimal
}

// Clone returns a deep copy.
func (t ClosedTrade) Clone() ClosedTrade {
	t.Profit = cloneDecimal(t.Profit)
	return t
}

// ReducedTrade is an immutable snapshot of a position partially consumed by
// netting. Units is the consumed amount, not the remainder.
type ReducedTrade struct {
	ID     string
	Units  int64
	Price  decimal.Decimal
	Time   time.Time
	Profit *decimal.Decimal
}

// Clone returns a deep copy.
func (t *ReducedTrade) Clone() *ReducedTrade {
	if t == nil {
		return nil
	}
	c := *t
	c.Profit = cloneDecimal(t.Profit)
	return &c
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// OrderResult is the outcome of one order submission or one tick-driven
// fill. At most one of OrderCreated/TradeOpened is set; TradeReduced is set
// only when the order was fully absorbed by a larger opposite position;
// TradesClosed lists opposite positions closed by netting, in walk order.
type OrderResult struct {
	OrderCreated *Order
	TradeOpened  *Position
	TradeReduced *ReducedTrade
	TradesClosed []ClosedTrade
}

// ---------------------------------------------------------------------------
// Copy helpers
// ---------------------------------------------------------------------------

// CloneMap deep-copies a wire-style map, descending into nested maps.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			c[k] = CloneMap(nested)
			continue
		}
		c[k] = v
	}
	return c
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
