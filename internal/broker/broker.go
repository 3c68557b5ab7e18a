// Package broker defines the Broker interface and provides simulated and
// live implementations for executing orders and managing positions.
package broker

import (
	"context"

	"fxsim/internal/domain"
)

// Broker abstracts order execution and position management so strategies
// run unchanged against the backtest simulator or a live venue.
type Broker interface {
	// Name returns the broker identifier (e.g. "simulator", "alpaca").
	Name() string

	// SubmitOrder submits an order for execution. Simulated brokers decide
	// the fill synchronously; live brokers return the created order and let
	// the venue fill it asynchronously.
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error)

	// GetOrder returns the open order with the given id.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// ListOrders returns open orders, newest first, up to count.
	ListOrders(ctx context.Context, count int, pair, maxID string) ([]domain.Order, error)

	// ModifyOrder merges new wire-form options into an open order.
	ModifyOrder(ctx context.Context, id string, options map[string]any) (*domain.Order, error)

	// CancelOrder cancels an open order and returns its last state.
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)

	// GetPositions returns all currently open positions.
	GetPositions(ctx context.Context) ([]domain.Position, error)
}
