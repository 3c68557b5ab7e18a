package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderOptions is the internal representation of the optional broker-style
// order properties. The set of fields is fixed; each is nullable so that an
// absent wire key stays distinguishable from a zero value.
type OrderOptions struct {
	Units                  *int64
	Price                  *decimal.Decimal
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

// Clone returns a deep copy.
func (o *OrderOptions) Clone() *OrderOptions {
	if o == nil {
		return nil
	}
	c := *o
	if o.Units != nil {
		u := *o.Units
		c.Units = &u
	}
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
