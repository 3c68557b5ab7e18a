// Package strategy defines the Strategy interface for trading strategies
// and provides a Registry plus a tick-replay Backtester.
package strategy

import (
	"context"
	"sort"

	"fxsim/internal/domain"
)

// Strategy is the interface all trading strategies implement.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Init performs any one-time setup before the strategy starts
	// receiving ticks.
	Init(ctx context.Context) error

	// OnTick is called for each new price tick. It returns zero or more
	// order requests to submit to the broker.
	OnTick(ctx context.Context, tick domain.Tick) ([]domain.OrderRequest, error)
}

// Registry holds a named collection of strategies for lookup and
// enumeration.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name. The second return value indicates
// whether the strategy was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
