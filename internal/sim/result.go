package sim

import "fxsim/internal/domain"

// pendingResult packages an order that did not fill: the result exposes a
// snapshot of the pending order and nothing else.
func pendingResult(order *domain.Order) *domain.OrderResult {
	return &domain.OrderResult{OrderCreated: order.Clone()}
}

// nettingResult packages a netting outcome. Exactly the applicable fields
// are populated and every embedded entity is an independent snapshot.
func nettingResult(out *outcome) *domain.OrderResult {
	result := &domain.OrderResult{
		TradeOpened:  out.opened.Clone(),
		TradeReduced: out.reduced.Clone(),
	}
	if len(out.closed) > 0 {
		result.TradesClosed = make([]domain.ClosedTrade, 0, len(out.closed))
		for _, t := range out.closed {
			result.TradesClosed = append(result.TradesClosed, t.Clone())
		}
	}
	return result
}
