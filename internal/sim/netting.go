package sim

import "fxsim/internal/domain"

// Book holds the open positions of one account and nets every new position
// against existing opposite-side exposure on the same pair.
type Book struct {
	pricer    Pricer
	positions []*domain.Position
}

// NewBook creates an empty Book valuing closes with the given Pricer.
func NewBook(pricer Pricer) *Book {
	return &Book{pricer: pricer}
}

// outcome is what one netting pass produced. opened is non-nil when the
// incoming position retained units; reduced is non-nil only when the
// incoming position was fully absorbed by a larger reverse position.
type outcome struct {
	opened  *domain.Position
	reduced *domain.ReducedTrade
	closed  []domain.ClosedTrade
}

// Net offsets the incoming position against reverse positions (same pair,
// opposite side) in the book's current storage order. The walk is a single
// forward sweep: it stops as soon as the incoming units are exhausted, so
// only reverse positions encountered before that point are touched. Reverse
// positions smaller than the remainder close fully; the first one larger is
// reduced in place, which zeroes the remainder and ends the pass. At most
// one reduce can therefore occur per call.
//
// If units remain after the sweep the incoming position joins the book with
// that remainder, and its originating order's unit count is updated to
// match; otherwise it is discarded.
func (b *Book) Net(incoming *domain.Position, tick *domain.Tick) *outcome {
	out := &outcome{}
	remaining := incoming.Units
	closed := make(map[*domain.Position]bool)

	for _, rev := range b.positions {
		if rev.Pair != incoming.Pair || rev.Side == incoming.Side {
			continue
		}
		if remaining == 0 {
			break
		}
		price := b.pricer.CurrentPrice(tick, rev.Pair, rev.Side)
		if rev.Units <= remaining {
			profit := b.pricer.Profit(rev, price, rev.Units)
			out.closed = append(out.closed, domain.ClosedTrade{
				ID:     rev.ID,
				Units:  rev.Units,
				Price:  price,
				Time:   tick.Time,
				Profit: &profit,
			})
			remaining -= rev.Units
			closed[rev] = true
			continue
		}
		consumed := remaining
		rev.Units -= consumed
		profit := b.pricer.Profit(rev, price, consumed)
		out.reduced = &domain.ReducedTrade{
			ID:     rev.ID,
			Units:  consumed,
			Price:  price,
			Time:   tick.Time,
			Profit: &profit,
		}
		remaining = 0
	}

	if len(closed) > 0 {
		kept := b.positions[:0]
		for _, p := range b.positions {
			if !closed[p] {
				kept = append(kept, p)
			}
		}
		b.positions = kept
	}

	if remaining > 0 {
		incoming.Units = remaining
		if incoming.Order != nil {
			incoming.Order.Units = remaining
		}
		b.positions = append(b.positions, incoming)
		out.opened = incoming
	}
	return out
}

// Positions returns snapshots of the open positions in storage order.
func (b *Book) Positions() []domain.Position {
	out := make([]domain.Position, 0, len(b.positions))
	for _, p := range b.positions {
		out = append(out, *p.Clone())
	}
	return out
}
