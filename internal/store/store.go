// Package store defines storage interfaces for historical ticks and for the
// journal of orders and trades a backtest run produces.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fxsim/internal/domain"
)

// TickStore persists and retrieves historical price ticks for single pairs.
type TickStore interface {
	// WriteTicks persists the given ticks' quotes for one pair. Ticks that
	// carry no quote for the pair are skipped.
	WriteTicks(ctx context.Context, pair string, ticks []domain.Tick) error

	// ReadTicks returns ticks for the pair within [start, end], in time
	// order. Each returned tick carries a quote for that pair only.
	ReadTicks(ctx context.Context, pair string, start, end time.Time) ([]domain.Tick, error)

	// ListPairs returns all pairs with stored tick data.
	ListPairs(ctx context.Context) ([]string, error)
}

// TradeEvent is one journal row: a position fully closed or partially
// reduced during a run.
type TradeEvent struct {
	RunID   string
	TradeID string
	Pair    string
	Units   int64
	Price   decimal.Decimal
	Profit  decimal.Decimal
	Event   string // "close" or "reduce"
	Time    time.Time
}

// JournalStore records what a backtest run did, for later reporting.
type JournalStore interface {
	// SaveOrder records an order submission under the given run.
	SaveOrder(ctx context.Context, runID string, order *domain.Order) error

	// SaveTradeEvent records a close or reduce event.
	SaveTradeEvent(ctx context.Context, ev TradeEvent) error

	// ListTradeEvents returns a run's trade events in insertion order.
	ListTradeEvents(ctx context.Context, runID string) ([]TradeEvent, error)
}
