package httpapi

import (
	"time"

	"fxsim/internal/domain"
)

// submitOrderRequest is the POST /v1/orders body.
type submitOrderRequest struct {
	Pair    string         `json:"pair"`
	Side    string         `json:"side"`
	Units   int64          `json:"units"`
	Type    string         `json:"type"`
	Options map[string]any `json:"options,omitempty"`
}

// tickRequest is the POST /v1/ticks body: one timestamped set of quotes.
type tickRequest struct {
	Time   time.Time            `json:"time"`
	Prices map[string]quoteJSON `json:"prices"`
}

type quoteJSON struct {
	Bid string `json:"bid"`
	Ask string `json:"ask"`
}

// orderJSON is the wire shape of an order snapshot.
type orderJSON struct {
	ID          string         `json:"id"`
	Pair        string         `json:"pair"`
	Side        string         `json:"side"`
	Units       int64          `json:"units"`
	Type        string         `json:"type"`
	Price       string         `json:"price,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	TimeInForce string         `json:"timeInForce,omitempty"`
	GTDTime     *time.Time     `json:"gtdTime,omitempty"`
	Extensions  map[string]any `json:"clientExtensions,omitempty"`
}

// positionJSON is the wire shape of a position snapshot.
type positionJSON struct {
	ID         string    `json:"id"`
	Pair       string    `json:"pair"`
	Side       string    `json:"side"`
	Units      int64     `json:"units"`
	EntryPrice string    `json:"entryPrice"`
	OpenedAt   time.Time `json:"openedAt"`
}

// tradeJSON is the wire shape of a closed or reduced trade snapshot.
type tradeJSON struct {
	ID     string    `json:"id"`
	Units  int64     `json:"units"`
	Price  string    `json:"price"`
	Time   time.Time `json:"time"`
	Profit string    `json:"profit,omitempty"`
}

// orderResultJSON is the wire shape of an OrderResult.
type orderResultJSON struct {
	OrderCreated *orderJSON    `json:"orderCreated,omitempty"`
	TradeOpened  *positionJSON `json:"tradeOpened,omitempty"`
	TradeReduced *tradeJSON    `json:"tradeReduced,omitempty"`
	TradesClosed []tradeJSON   `json:"tradesClosed,omitempty"`
}

func toOrderJSON(o *domain.Order) *orderJSON {
	if o == nil {
		return nil
	}
	out := &orderJSON{
		ID:          o.ID,
		Pair:        o.Pair,
		Side:        string(o.Side),
		Units:       o.Units,
		Type:        string(o.Type),
		CreatedAt:   o.CreatedAt,
		TimeInForce: string(o.TimeInForce),
		GTDTime:     o.GTDTime,
		Extensions:  o.ClientExtensions,
	}
	if o.Price != nil {
		out.Price = o.Price.String()
	}
	return out
}

func toPositionJSON(p *domain.Position) *positionJSON {
	if p == nil {
		return nil
	}
	return &positionJSON{
		ID:         p.ID,
		Pair:       p.Pair,
		Side:       string(p.Side),
		Units:      p.Units,
		EntryPrice: p.EntryPrice.String(),
		OpenedAt:   p.OpenedAt,
	}
}

func toResultJSON(r *domain.OrderResult) *orderResultJSON {
	out := &orderResultJSON{
		OrderCreated: toOrderJSON(r.OrderCreated),
		TradeOpened:  toPositionJSON(r.TradeOpened),
	}
	if r.TradeReduced != nil {
		t := tradeJSON{
			ID:    r.TradeReduced.ID,
			Units: r.TradeReduced.Units,
			Price: r.TradeReduced.Price.String(),
			Time:  r.TradeReduced.Time,
		}
		if r.TradeReduced.Profit != nil {
			t.Profit = r.TradeReduced.Profit.String()
		}
		out.TradeReduced = &t
	}
	for _, c := range r.TradesClosed {
		t := tradeJSON{
			ID:    c.ID,
			Units: c.Units,
			Price: c.Price.String(),
			Time:  c.Time,
		}
		if c.Profit != nil {
			t.Profit = c.Profit.String()
		}
		out.TradesClosed = append(out.TradesClosed, t)
	}
	return out
}
