package strategy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"fxsim/internal/broker"
	"fxsim/internal/domain"
	"fxsim/internal/store"
)

// BacktestResult holds the summary metrics produced by a backtest run.
type BacktestResult struct {
	RunID       string
	TotalProfit decimal.Decimal
	TotalTrades int
	WinRate     float64
	MaxDrawdown decimal.Decimal
	Ticks       int
}

// Backtester replays historical tick data through a strategy against a
// fresh simulator account and computes performance metrics.
type Backtester struct {
	ticks    store.TickStore
	journal  store.JournalStore // may be nil
	registry *Registry
	log      *slog.Logger
}

// NewBacktester creates a Backtester reading ticks from tickStore, journaling
// to journal (which may be nil to skip journaling), and looking strategies
// up in registry.
func NewBacktester(tickStore store.TickStore, journal store.JournalStore, registry *Registry) *Backtester {
	return &Backtester{
		ticks:    tickStore,
		journal:  journal,
		registry: registry,
		log:      slog.Default().With("component", "backtester"),
	}
}

// Run executes a backtest for the named strategy over one pair and date
// range. Each tick first sweeps pending orders, then feeds the strategy;
// resulting order requests are submitted immediately. Validation failures
// from the strategy's requests are logged and skipped, not fatal.
func (bt *Backtester) Run(ctx context.Context, strategyName, pair string, start, end time.Time) (*BacktestResult, error) {
	strat, ok := bt.registry.Get(strategyName)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", strategyName)
	}
	if err := strat.Init(ctx); err != nil {
		return nil, fmt.Errorf("initializing strategy %q: %w", strategyName, err)
	}

	ticks, err := bt.ticks.ReadTicks(ctx, pair, start, end)
	if err != nil {
		return nil, fmt.Errorf("reading ticks for %s: %w", pair, err)
	}
	if len(ticks) == 0 {
		return nil, fmt.Errorf("no ticks for %s in [%s, %s]", pair, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	sim := broker.NewSimulatorBroker()
	result := &BacktestResult{
		RunID: fmt.Sprintf("%s-%s-%d", strategyName, pair, time.Now().UnixMilli()),
		Ticks: len(ticks),
	}

	var (
		wins   int
		equity decimal.Decimal
		peak   decimal.Decimal
	)
	record := func(results []*domain.OrderResult) error {
		for _, r := range results {
			for _, closed := range r.TradesClosed {
				equity = bt.recordEvent(ctx, result, "close", pair, closed.ID, closed.Units, closed.Price, closed.Profit, closed.Time, equity, &wins)
			}
			if r.TradeReduced != nil {
				red := r.TradeReduced
				equity = bt.recordEvent(ctx, result, "reduce", pair, red.ID, red.Units, red.Price, red.Profit, red.Time, equity, &wins)
			}
			if peak.LessThan(equity) {
				peak = equity
			}
			if dd := peak.Sub(equity); result.MaxDrawdown.LessThan(dd) {
				result.MaxDrawdown = dd
			}
		}
		return nil
	}

	for i := range ticks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tick := &ticks[i]
		if err := record(sim.OnTick(tick)); err != nil {
			return nil, err
		}

		requests, err := strat.OnTick(ctx, *tick)
		if err != nil {
			return nil, fmt.Errorf("strategy %q on tick %s: %w", strategyName, tick.Time.Format(time.RFC3339), err)
		}
		for _, req := range requests {
			res, err := sim.SubmitOrder(ctx, req)
			if err != nil {
				var verr *domain.ValidationError
				if errors.As(err, &verr) {
					bt.log.Warn("rejected strategy order", "strategy", strategyName, "reason", verr.Error())
					continue
				}
				return nil, err
			}
			if bt.journal != nil && res.OrderCreated != nil {
				if err := bt.journal.SaveOrder(ctx, result.RunID, res.OrderCreated); err != nil {
					return nil, fmt.Errorf("journaling order: %w", err)
				}
			}
			if err := record([]*domain.OrderResult{res}); err != nil {
				return nil, err
			}
		}
	}

	if result.TotalTrades > 0 {
		result.WinRate = float64(wins) / float64(result.TotalTrades)
	}
	bt.log.Info("backtest finished",
		"run", result.RunID,
		"ticks", result.Ticks,
		"trades", result.TotalTrades,
		"profit", result.TotalProfit.String(),
	)
	return result, nil
}

// recordEvent accumulates one close/reduce event into the result and the
// journal, returning the updated equity.
func (bt *Backtester) recordEvent(
	ctx context.Context,
	result *BacktestResult,
	event, pair, tradeID string,
	units int64,
	price decimal.Decimal,
	profit *decimal.Decimal,
	at time.Time,
	equity decimal.Decimal,
	wins *int,
) decimal.Decimal {
	p := decimal.Zero
	if profit != nil {
		p = *profit
	}
	result.TotalTrades++
	result.TotalProfit = result.TotalProfit.Add(p)
	if p.IsPositive() {
		*wins++
	}
	if bt.journal != nil {
		ev := store.TradeEvent{
			RunID:   result.RunID,
			TradeID: tradeID,
			Pair:    pair,
			Units:   units,
			Price:   price,
			Profit:  p,
			Event:   event,
			Time:    at,
		}
		if err := bt.journal.SaveTradeEvent(ctx, ev); err != nil {
			bt.log.Error("journaling trade event", "err", err)
		}
	}
	return equity.Add(p)
}
