package broker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	alpacaapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/shopspring/decimal"

	"fxsim/internal/domain"
	"fxsim/internal/sim"
	"fxsim/internal/util"
)

// Compile-time interface check.
var _ Broker = (*AlpacaBroker)(nil)

// AlpacaBroker implements the Broker interface against the Alpaca trading
// API. It exists for forward-testing: a strategy validated against the
// simulator can run unchanged on an Alpaca paper account. Fills happen on
// the venue, so SubmitOrder only ever reports the created order.
type AlpacaBroker struct {
	client     *alpacaapi.Client
	translator sim.WireTranslator
	limiter    *util.RateLimiter
	log        *slog.Logger
}

// NewAlpacaBroker creates an AlpacaBroker configured with the given
// credentials and API endpoint.
func NewAlpacaBroker(apiKey, apiSecret, baseURL string) *AlpacaBroker {
	return &AlpacaBroker{
		client: alpacaapi.NewClient(alpacaapi.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		limiter: util.NewRateLimiter(180),
		log:     slog.Default().With("broker", "alpaca"),
	}
}

// Name returns "alpaca".
func (b *AlpacaBroker) Name() string {
	return "alpaca"
}

// SubmitOrder places the order on Alpaca. Price and time-in-force come from
// the wire options; properties Alpaca has no counterpart for (trigger
// condition, extensions) are dropped.
func (b *AlpacaBroker) SubmitOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	opts, err := b.translator.FromWire(req.Options)
	if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(req.Units)
	placeReq := alpacaapi.PlaceOrderRequest{
		Symbol:      alpacaSymbol(req.Pair),
		Qty:         &qty,
		Side:        alpacaSide(req.Side),
		Type:        alpacaType(req.Type),
		TimeInForce: alpacaTIF(opts.TimeInForce),
	}
	switch req.Type {
	case domain.OrderTypeLimit, domain.OrderTypeMarketIfTouched:
		placeReq.LimitPrice = opts.Price
	case domain.OrderTypeStop:
		placeReq.StopPrice = opts.Price
	}

	var placed *alpacaapi.Order
	err = b.call(ctx, func() error {
		var err error
		placed, err = b.client.PlaceOrder(placeReq)
		return err
	})
	if err != nil {
		return nil, err
	}
	b.log.Info("order placed", "id", placed.ID, "symbol", placed.Symbol, "side", req.Side, "units", req.Units)
	return &domain.OrderResult{OrderCreated: fromAlpacaOrder(placed)}, nil
}

// GetOrder returns the open order with the given id.
func (b *AlpacaBroker) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order *alpacaapi.Order
	err := b.call(ctx, func() error {
		var err error
		order, err = b.client.GetOrder(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fromAlpacaOrder(order), nil
}

// ListOrders returns open orders, newest first. The pair and maxID
// parameters are accepted for interface compatibility; Alpaca's listing is
// account-wide.
func (b *AlpacaBroker) ListOrders(ctx context.Context, count int, pair, maxID string) ([]domain.Order, error) {
	_ = pair
	_ = maxID
	if count <= 0 {
		count = 500
	}
	var orders []alpacaapi.Order
	err := b.call(ctx, func() error {
		var err error
		orders, err = b.client.GetOrders(alpacaapi.GetOrdersRequest{
			Status: "open",
			Limit:  count,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(orders))
	for i := range orders {
		out = append(out, *fromAlpacaOrder(&orders[i]))
	}
	return out, nil
}

// ModifyOrder replaces the order's quantity and limit price. Alpaca models
// modification as replacement, so the returned order carries a new id.
func (b *AlpacaBroker) ModifyOrder(ctx context.Context, id string, options map[string]any) (*domain.Order, error) {
	opts, err := b.translator.FromWire(options)
	if err != nil {
		return nil, err
	}
	replaceReq := alpacaapi.ReplaceOrderRequest{}
	if opts.Units != nil && *opts.Units != 0 {
		qty := decimal.NewFromInt(*opts.Units)
		replaceReq.Qty = &qty
	}
	if opts.Price != nil && !opts.Price.IsZero() {
		replaceReq.LimitPrice = opts.Price
	}

	var replaced *alpacaapi.Order
	err = b.call(ctx, func() error {
		var err error
		replaced, err = b.client.ReplaceOrder(id, replaceReq)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fromAlpacaOrder(replaced), nil
}

// CancelOrder cancels the order and returns its last observed state.
func (b *AlpacaBroker) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := b.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	err = b.call(ctx, func() error {
		return b.client.CancelOrder(id)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetPositions returns all open positions on the account.
func (b *AlpacaBroker) GetPositions(ctx context.Context) ([]domain.Position, error) {
	var positions []alpacaapi.Position
	err := b.call(ctx, func() error {
		var err error
		positions, err = b.client.GetPositions()
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Position, 0, len(positions))
	for _, p := range positions {
		side := domain.SideBuy
		qty := p.Qty
		if qty.IsNegative() {
			side = domain.SideSell
			qty = qty.Neg()
		}
		out = append(out, domain.Position{
			ID:         p.AssetID,
			Pair:       p.Symbol,
			Side:       side,
			Units:      qty.IntPart(),
			EntryPrice: p.AvgEntryPrice,
		})
	}
	return out, nil
}

// call paces and retries one API invocation.
func (b *AlpacaBroker) call(ctx context.Context, fn func() error) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	return util.Retry(ctx, 3, 250*time.Millisecond, fn)
}

// ---------------------------------------------------------------------------
// Type mapping
// ---------------------------------------------------------------------------

// alpacaSymbol converts a pair identifier to Alpaca's symbol form.
func alpacaSymbol(pair string) string {
	return strings.ReplaceAll(pair, "_", "")
}

func alpacaSide(side domain.Side) alpacaapi.Side {
	if side == domain.SideSell {
		return alpacaapi.Sell
	}
	return alpacaapi.Buy
}

func alpacaType(typ domain.OrderType) alpacaapi.OrderType {
	switch typ {
	case domain.OrderTypeLimit, domain.OrderTypeMarketIfTouched:
		return alpacaapi.Limit
	case domain.OrderTypeStop:
		return alpacaapi.Stop
	default:
		return alpacaapi.Market
	}
}

func alpacaTIF(tif domain.TimeInForce) alpacaapi.TimeInForce {
	switch tif {
	case domain.TIFFillOrKill:
		return alpacaapi.FOK
	case domain.TIFImmediate:
		return alpacaapi.IOC
	default:
		// Alpaca has no GTD; resting orders fall back to GTC.
		return alpacaapi.GTC
	}
}

func fromAlpacaType(typ alpacaapi.OrderType) domain.OrderType {
	switch typ {
	case alpacaapi.Limit:
		return domain.OrderTypeLimit
	case alpacaapi.Stop:
		return domain.OrderTypeStop
	default:
		return domain.OrderTypeMarket
	}
}

func fromAlpacaOrder(o *alpacaapi.Order) *domain.Order {
	order := &domain.Order{
		ID:          o.ID,
		Pair:        o.Symbol,
		Type:        fromAlpacaType(o.Type),
		CreatedAt:   o.CreatedAt,
		TimeInForce: domain.TimeInForce(o.TimeInForce),
	}
	if o.Side == alpacaapi.Sell {
		order.Side = domain.SideSell
	} else {
		order.Side = domain.SideBuy
	}
	if o.Qty != nil {
		order.Units = o.Qty.IntPart()
	}
	switch {
	case o.LimitPrice != nil:
		p := *o.LimitPrice
		order.Price = &p
	case o.StopPrice != nil:
		p := *o.StopPrice
		order.Price = &p
	}
	return order
}
