package sim

import "fxsim/internal/domain"

// Account is a single virtual trading account: a pending-order set, an
// open-position book, and the collaborators that translate, validate, and
// price orders. Accounts are not safe for concurrent use; correctness
// depends on serialized access.
type Account struct {
	orders *OrderManager
	book   *Book
}

// NewAccount creates an Account with the default collaborators: wire option
// translation, standard pre-trade validation, and bid/ask pricing.
func NewAccount(ticks TickSource) *Account {
	pricer := BidAskPricer{}
	return NewAccountWith(ticks, WireTranslator{}, OrderValidator{}, NewTradeBuilder(pricer), pricer)
}

// NewAccountWith wires an Account from explicit collaborators.
func NewAccountWith(ticks TickSource, tr Translator, v Validator, pb PositionBuilder, pr Pricer) *Account {
	book := NewBook(pr)
	return &Account{
		orders: NewOrderManager(ticks, tr, v, pb, pr, book),
		book:   book,
	}
}

// Submit validates and executes or enqueues an order.
func (a *Account) Submit(pair string, side domain.Side, units int64, typ domain.OrderType, options map[string]any) (*domain.OrderResult, error) {
	return a.orders.Submit(pair, side, units, typ, options)
}

// Orders lists pending orders, newest id first.
func (a *Account) Orders(count int, pair, maxID string) []domain.Order {
	return a.orders.List(count, pair, maxID)
}

// Order returns the pending order with the given id.
func (a *Account) Order(id string) (*domain.Order, error) {
	return a.orders.Get(id)
}

// Modify merges new options into a pending order.
func (a *Account) Modify(id string, options map[string]any) (*domain.Order, error) {
	return a.orders.Modify(id, options)
}

// Cancel removes a pending order.
func (a *Account) Cancel(id string) (*domain.Order, error) {
	return a.orders.Cancel(id)
}

// Positions returns snapshots of the open positions in storage order.
func (a *Account) Positions() []domain.Position {
	return a.book.Positions()
}

// Advance sweeps pending orders against a new tick and returns the results
// of any fills.
func (a *Account) Advance(tick *domain.Tick) []*domain.OrderResult {
	return a.orders.Advance(tick)
}
