package sim

import (
	"sort"
	"strconv"

	"fxsim/internal/domain"
)

// defaultListCount bounds List results when the caller passes no count.
const defaultListCount = 500

// OrderManager owns the pending-order set of one account: it creates,
// modifies, cancels, and lists pending orders, and advances them against
// each new tick, handing fills to the Book.
type OrderManager struct {
	ticks      TickSource
	translator Translator
	validator  Validator
	builder    PositionBuilder
	pricer     Pricer
	book       *Book

	pending []*domain.Order
	seq     int64
}

// NewOrderManager wires an OrderManager from its collaborators. The id
// counter is seeded at 1 and pre-incremented, so the first issued id is "2".
func NewOrderManager(ticks TickSource, tr Translator, v Validator, pb PositionBuilder, pr Pricer, book *Book) *OrderManager {
	return &OrderManager{
		ticks:      ticks,
		translator: tr,
		validator:  v,
		builder:    pb,
		pricer:     pr,
		book:       book,
		seq:        1,
	}
}

func (m *OrderManager) nextID() string {
	m.seq++
	return strconv.FormatInt(m.seq, 10)
}

// Submit validates and creates an order. Orders whose conditions are already
// met against the current tick fill immediately through the netting path;
// everything else joins the pending set. The returned result carries either
// the pending order snapshot or the netting outcome.
func (m *OrderManager) Submit(pair string, side domain.Side, units int64, typ domain.OrderType, wire map[string]any) (*domain.OrderResult, error) {
	opts, err := m.translator.FromWire(wire)
	if err != nil {
		return nil, err
	}
	applyDefaults(typ, opts)
	if err := m.validator.Validate(pair, side, units, typ, opts); err != nil {
		return nil, err
	}

	tick := m.ticks.Current()
	order := m.newOrder(pair, side, units, typ, opts, tick)
	if fillable(order, tick) {
		position := m.builder.Build(order, tick)
		return nettingResult(m.book.Net(position, tick)), nil
	}
	m.pending = append(m.pending, order)
	return pendingResult(order), nil
}

// newOrder constructs the stored order: a fresh id, the resolved price
// (market orders take the current entry price, resting orders keep the
// caller-supplied price or none), and the optional properties from opts.
func (m *OrderManager) newOrder(pair string, side domain.Side, units int64, typ domain.OrderType, opts *domain.OrderOptions, tick *domain.Tick) *domain.Order {
	order := &domain.Order{
		ID:    m.nextID(),
		Pair:  pair,
		Side:  side,
		Units: units,
		Type:  typ,

		TimeInForce:            opts.TimeInForce,
		PositionFill:           opts.PositionFill,
		TriggerCondition:       opts.TriggerCondition,
		ClientExtensions:       domain.CloneMap(opts.ClientExtensions),
		TakeProfitOnFill:       domain.CloneMap(opts.TakeProfitOnFill),
		StopLossOnFill:         domain.CloneMap(opts.StopLossOnFill),
		TrailingStopLossOnFill: domain.CloneMap(opts.TrailingStopLossOnFill),
		TradeClientExtensions:  domain.CloneMap(opts.TradeClientExtensions),
	}
	if opts.GTDTime != nil {
		t := *opts.GTDTime
		order.GTDTime = &t
	}
	if opts.PriceBound != nil {
		p := *opts.PriceBound
		order.PriceBound = &p
	}
	if typ == domain.OrderTypeMarket {
		if tick != nil {
			entry := m.pricer.EntryPrice(tick, pair, side)
			order.Price = &entry
		}
	} else if opts.Price != nil {
		p := *opts.Price
		order.Price = &p
	}
	if tick != nil {
		order.CreatedAt = tick.Time
	}
	return order
}

// List returns snapshots of pending orders ordered by descending numeric id
// (most recently created first), truncated to count (500 when count <= 0).
// The pair and maxID parameters are accepted for wire compatibility but are
// not applied as filters.
func (m *OrderManager) List(count int, pair, maxID string) []domain.Order {
	_ = pair
	_ = maxID
	if count <= 0 {
		count = defaultListCount
	}
	out := make([]domain.Order, 0, len(m.pending))
	for _, o := range m.pending {
		out = append(out, *o.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return numericID(out[i].ID) > numericID(out[j].ID)
	})
	if len(out) > count {
		out = out[:count]
	}
	return out
}

// Get returns a snapshot of the pending order with the given id.
func (m *OrderManager) Get(id string) (*domain.Order, error) {
	o := m.find(id)
	if o == nil {
		return nil, domain.NotFound(id)
	}
	return o.Clone(), nil
}

// Modify merges new options into a pending order. The merged option set is
// re-validated against the order's pair, side, and type before anything is
// applied. Map-valued properties (the extension and on-fill objects) merge
// key-by-key, with new keys overriding; every other property is overwritten.
// Absent or empty values leave the stored value untouched, so there is no
// way to clear a property through this path.
func (m *OrderManager) Modify(id string, wire map[string]any) (*domain.Order, error) {
	order := m.find(id)
	if order == nil {
		return nil, domain.NotFound(id)
	}
	opts, err := m.translator.FromWire(wire)
	if err != nil {
		return nil, err
	}

	units := order.Units
	if opts.Units != nil && *opts.Units != 0 {
		units = *opts.Units
	}
	if err := m.validator.Validate(order.Pair, order.Side, units, order.Type, effectiveOptions(order, opts)); err != nil {
		return nil, err
	}

	applyOptions(order, opts)
	return order.Clone(), nil
}

// Cancel removes the order with the given id from the pending set and
// returns its pre-removal snapshot.
func (m *OrderManager) Cancel(id string) (*domain.Order, error) {
	for i, o := range m.pending {
		if o.ID == id {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return o.Clone(), nil
		}
	}
	return nil, domain.NotFound(id)
}

// Advance sweeps the pending set against a new tick, in set order: orders
// whose good-till time has passed are dropped without filling, orders whose
// fill condition is met are removed and netted, and everything else stays
// pending in its original relative order. The results of the fills are
// returned for downstream consumers.
func (m *OrderManager) Advance(tick *domain.Tick) []*domain.OrderResult {
	var results []*domain.OrderResult
	kept := m.pending[:0]
	for _, o := range m.pending {
		if o.GTDTime != nil && tick.Time.After(*o.GTDTime) {
			continue
		}
		if fillable(o, tick) {
			position := m.builder.Build(o, tick)
			results = append(results, nettingResult(m.book.Net(position, tick)))
			continue
		}
		kept = append(kept, o)
	}
	m.pending = kept
	return results
}

func (m *OrderManager) find(id string) *domain.Order {
	for _, o := range m.pending {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func numericID(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}

// fillable reports whether the order's conditions are satisfied against the
// tick. Market orders fill unconditionally. Limit and market-if-touched
// orders fill when the touching side of the quote reaches their price, stop
// orders when it breaks through.
func fillable(o *domain.Order, tick *domain.Tick) bool {
	if o.Type == domain.OrderTypeMarket {
		return tick != nil
	}
	if tick == nil || o.Price == nil {
		return false
	}
	quote, ok := tick.Prices[o.Pair]
	if !ok {
		return false
	}
	switch o.Type {
	case domain.OrderTypeLimit, domain.OrderTypeMarketIfTouched:
		if o.Side == domain.SideBuy {
			return quote.Ask.LessThanOrEqual(*o.Price)
		}
		return quote.Bid.GreaterThanOrEqual(*o.Price)
	case domain.OrderTypeStop:
		if o.Side == domain.SideBuy {
			return quote.Ask.GreaterThanOrEqual(*o.Price)
		}
		return quote.Bid.LessThanOrEqual(*o.Price)
	}
	return false
}

// ---------------------------------------------------------------------------
// Modify merge rules
// ---------------------------------------------------------------------------

// effectiveOptions builds the option set the validator sees for a modify:
// the order's current modifiable properties overlaid with the new values.
func effectiveOptions(o *domain.Order, n *domain.OrderOptions) *domain.OrderOptions {
	eff := &domain.OrderOptions{
		TimeInForce:            o.TimeInForce,
		PositionFill:           o.PositionFill,
		TriggerCondition:       o.TriggerCondition,
		ClientExtensions:       domain.CloneMap(o.ClientExtensions),
		TakeProfitOnFill:       domain.CloneMap(o.TakeProfitOnFill),
		StopLossOnFill:         domain.CloneMap(o.StopLossOnFill),
		TrailingStopLossOnFill: domain.CloneMap(o.TrailingStopLossOnFill),
		TradeClientExtensions:  domain.CloneMap(o.TradeClientExtensions),
	}
	if o.Price != nil {
		p := *o.Price
		eff.Price = &p
	}
	if o.GTDTime != nil {
		t := *o.GTDTime
		eff.GTDTime = &t
	}
	if o.PriceBound != nil {
		p := *o.PriceBound
		eff.PriceBound = &p
	}
	applyMerge(eff, n)
	return eff
}

// applyOptions mutates the stored order per the merge rule table.
func applyOptions(o *domain.Order, n *domain.OrderOptions) {
	if n.Units != nil && *n.Units != 0 {
		o.Units = *n.Units
	}
	if n.Price != nil && !n.Price.IsZero() {
		p := *n.Price
		o.Price = &p
	}
	if n.TimeInForce != "" {
		o.TimeInForce = n.TimeInForce
	}
	if n.PositionFill != "" {
		o.PositionFill = n.PositionFill
	}
	if n.TriggerCondition != "" {
		o.TriggerCondition = n.TriggerCondition
	}
	o.ClientExtensions = mergeMap(o.ClientExtensions, n.ClientExtensions)
	o.TakeProfitOnFill = mergeMap(o.TakeProfitOnFill, n.TakeProfitOnFill)
	o.StopLossOnFill = mergeMap(o.StopLossOnFill, n.StopLossOnFill)
	o.TrailingStopLossOnFill = mergeMap(o.TrailingStopLossOnFill, n.TrailingStopLossOnFill)
	o.TradeClientExtensions = mergeMap(o.TradeClientExtensions, n.TradeClientExtensions)
	if n.GTDTime != nil && !n.GTDTime.IsZero() {
		t := *n.GTDTime
		o.GTDTime = &t
	}
	if n.PriceBound != nil && !n.PriceBound.IsZero() {
		p := *n.PriceBound
		o.PriceBound = &p
	}
}

// applyMerge is applyOptions for an OrderOptions target, used when building
// the effective set for re-validation.
func applyMerge(eff, n *domain.OrderOptions) {
	if n.Units != nil && *n.Units != 0 {
		u := *n.Units
		eff.Units = &u
	}
	if n.Price != nil && !n.Price.IsZero() {
		p := *n.Price
		eff.Price = &p
	}
	if n.TimeInForce != "" {
		eff.TimeInForce = n.TimeInForce
	}
	if n.PositionFill != "" {
		eff.PositionFill = n.PositionFill
	}
	if n.TriggerCondition != "" {
		eff.TriggerCondition = n.TriggerCondition
	}
	eff.ClientExtensions = mergeMap(eff.ClientExtensions, n.ClientExtensions)
	eff.TakeProfitOnFill = mergeMap(eff.TakeProfitOnFill, n.TakeProfitOnFill)
	eff.StopLossOnFill = mergeMap(eff.StopLossOnFill, n.StopLossOnFill)
	eff.TrailingStopLossOnFill = mergeMap(eff.TrailingStopLossOnFill, n.TrailingStopLossOnFill)
	eff.TradeClientExtensions = mergeMap(eff.TradeClientExtensions, n.TradeClientExtensions)
	if n.GTDTime != nil && !n.GTDTime.IsZero() {
		t := *n.GTDTime
		eff.GTDTime = &t
	}
	if n.PriceBound != nil && !n.PriceBound.IsZero() {
		p := *n.PriceBound
		eff.PriceBound = &p
	}
}

// mergeMap overlays src onto dst, copying nested values so no caller map is
// retained. A nil or empty src leaves dst unchanged.
func mergeMap(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			dst[k] = domain.CloneMap(nested)
			continue
		}
		dst[k] = v
	}
	return dst
}
