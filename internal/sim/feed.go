package sim

import "fxsim/internal/domain"

// Compile-time interface check.
var _ TickSource = (*Feed)(nil)

// Feed is an in-memory TickSource. The driver (backtest loop or API server)
// pushes each new tick with Set before advancing the account, so submits and
// sweeps always price against the same observation.
type Feed struct {
	current *domain.Tick
}

// NewFeed creates an empty Feed. Current returns nil until the first Set.
func NewFeed() *Feed {
	return &Feed{}
}

// Set records the latest tick.
func (f *Feed) Set(tick *domain.Tick) {
	f.current = tick
}

// Current returns the most recently set tick.
func (f *Feed) Current() *domain.Tick {
	return f.current
}
