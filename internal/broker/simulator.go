package broker

import (
	"context"

	"fxsim/internal/domain"
	"fxsim/internal/sim"
)

// Compile-time interface check.
var _ Broker = (*SimulatorBroker)(nil)

// SimulatorBroker implements the Broker interface for backtesting. Orders
// fill against historical ticks pushed through OnTick instead of a live
// venue; all state lives in memory in a single sim.Account.
type SimulatorBroker struct {
	feed    *sim.Feed
	account *sim.Account
}

// NewSimulatorBroker creates a SimulatorBroker with an empty account. It
// has no usable prices until the first OnTick.
func NewSimulatorBroker() *SimulatorBroker {
	feed := sim.NewFeed()
	return &SimulatorBroker{
		feed:    feed,
		account: sim.NewAccount(feed),
	}
}

// Name returns "simulator".
func (b *SimulatorBroker) Name() string {
	return "simulator"
}

// OnTick advances the simulated clock: the tick becomes the current quote
// and pending orders are swept against it. The results of any fills are
// returned so the backtest driver can record them.
func (b *SimulatorBroker) OnTick(tick *domain.Tick) []*domain.OrderResult {
	b.feed.Set(tick)
	return b.account.Advance(tick)
}

// SubmitOrder submits an order to the simulated account. The fill decision
// is made synchronously against the current tick.
func (b *SimulatorBroker) SubmitOrder(_ context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	return b.account.Submit(req.Pair, req.Side, req.Units, req.Type, req.Options)
}

// GetOrder returns the pending order with the given id.
func (b *SimulatorBroker) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	return b.account.Order(id)
}

// ListOrders returns pending orders, newest id first.
func (b *SimulatorBroker) ListOrders(_ context.Context, count int, pair, maxID string) ([]domain.Order, error) {
	return b.account.Orders(count, pair, maxID), nil
}

// ModifyOrder merges new options into a pending order.
func (b *SimulatorBroker) ModifyOrder(_ context.Context, id string, options map[string]any) (*domain.Order, error) {
	return b.account.Modify(id, options)
}

// CancelOrder removes a pending order and returns its pre-removal state.
func (b *SimulatorBroker) CancelOrder(_ context.Context, id string) (*domain.Order, error) {
	return b.account.Cancel(id)
}

// GetPositions returns all simulated open positions.
func (b *SimulatorBroker) GetPositions(_ context.Context) ([]domain.Position, error) {
	return b.account.Positions(), nil
}
