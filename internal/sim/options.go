package sim

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"fxsim/internal/domain"
)

// Wire option keys accepted from and emitted to broker-style callers.
const (
	optUnits                  = "units"
	optPrice                  = "price"
	optTimeInForce            = "timeInForce"
	optPositionFill           = "positionFill"
	optTriggerCondition       = "triggerCondition"
	optClientExtensions       = "clientExtensions"
	optTakeProfitOnFill       = "takeProfitOnFill"
	optStopLossOnFill         = "stopLossOnFill"
	optTrailingStopLossOnFill = "trailingStopLossOnFill"
	optTradeClientExtensions  = "tradeClientExtensions"
	optGTDTime                = "gtdTime"
	optPriceBound             = "priceBound"
)

// Compile-time interface check.
var _ Translator = WireTranslator{}

// WireTranslator converts between the broker-style wire option mapping and
// the internal OrderOptions representation. The round trip is lossless for
// all known keys; nested extension maps pass through unchanged in shape.
type WireTranslator struct{}

// FromWire parses a wire option mapping. Scalar values are accepted in their
// JSON-friendly forms (numbers or numeric strings for units and prices,
// RFC 3339 strings or time.Time for gtdTime). Unknown keys are ignored.
func (WireTranslator) FromWire(wire map[string]any) (*domain.OrderOptions, error) {
	opts := &domain.OrderOptions{}
	if len(wire) == 0 {
		return opts, nil
	}

	var err error
	if v, ok := wire[optUnits]; ok {
		if opts.Units, err = toInt64(optUnits, v); err != nil {
			return nil, err
		}
	}
	if v, ok := wire[optPrice]; ok {
		if opts.Price, err = toDecimal(optPrice, v); err != nil {
			return nil, err
		}
	}
	if v, ok := wire[optTimeInForce]; ok {
		opts.TimeInForce = domain.TimeInForce(toString(v))
	}
	if v, ok := wire[optPositionFill]; ok {
		opts.PositionFill = toString(v)
	}
	if v, ok := wire[optTriggerCondition]; ok {
		opts.TriggerCondition = toString(v)
	}
	opts.ClientExtensions = toMap(wire[optClientExtensions])
	opts.TakeProfitOnFill = toMap(wire[optTakeProfitOnFill])
	opts.StopLossOnFill = toMap(wire[optStopLossOnFill])
	opts.TrailingStopLossOnFill = toMap(wire[optTrailingStopLossOnFill])
	opts.TradeClientExtensions = toMap(wire[optTradeClientExtensions])
	if v, ok := wire[optGTDTime]; ok {
		if opts.GTDTime, err = toTime(optGTDTime, v); err != nil {
			return nil, err
		}
	}
	if v, ok := wire[optPriceBound]; ok {
		if opts.PriceBound, err = toDecimal(optPriceBound, v); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// ToWire emits the wire mapping for the given options. Only set fields
// appear; nested maps are deep-copied so the caller cannot reach internal
// state through the result.
func (WireTranslator) ToWire(opts *domain.OrderOptions) map[string]any {
	wire := make(map[string]any)
	if opts == nil {
		return wire
	}
	if opts.Units != nil {
		wire[optUnits] = *opts.Units
	}
	if opts.Price != nil {
		wire[optPrice] = opts.Price.String()
	}
	if opts.TimeInForce != "" {
		wire[optTimeInForce] = string(opts.TimeInForce)
	}
	if opts.PositionFill != "" {
		wire[optPositionFill] = opts.PositionFill
	}
	if opts.TriggerCondition != "" {
		wire[optTriggerCondition] = opts.TriggerCondition
	}
	if opts.ClientExtensions != nil {
		wire[optClientExtensions] = domain.CloneMap(opts.ClientExtensions)
	}
	if opts.TakeProfitOnFill != nil {
		wire[optTakeProfitOnFill] = domain.CloneMap(opts.TakeProfitOnFill)
	}
	if opts.StopLossOnFill != nil {
		wire[optStopLossOnFill] = domain.CloneMap(opts.StopLossOnFill)
	}
	if opts.TrailingStopLossOnFill != nil {
		wire[optTrailingStopLossOnFill] = domain.CloneMap(opts.TrailingStopLossOnFill)
	}
	if opts.TradeClientExtensions != nil {
		wire[optTradeClientExtensions] = domain.CloneMap(opts.TradeClientExtensions)
	}
	if opts.GTDTime != nil {
		wire[optGTDTime] = opts.GTDTime.Format(time.RFC3339Nano)
	}
	if opts.PriceBound != nil {
		wire[optPriceBound] = opts.PriceBound.String()
	}
	return wire
}

// applyDefaults inserts the type-dependent defaults a broker would: market
// orders get an immediate time-in-force, everything else rests good-till-
// cancelled; position fill and (for resting orders) trigger condition fall
// back to the standard policies.
func applyDefaults(typ domain.OrderType, opts *domain.OrderOptions) {
	if opts.TimeInForce == "" {
		if typ == domain.OrderTypeMarket {
			opts.TimeInForce = domain.TIFFillOrKill
		} else {
			opts.TimeInForce = domain.TIFGoodTilCancel
		}
	}
	if opts.PositionFill == "" {
		opts.PositionFill = domain.PositionFillDefault
	}
	if typ != domain.OrderTypeMarket && opts.TriggerCondition == "" {
		opts.TriggerCondition = domain.TriggerDefault
	}
}

// ---------------------------------------------------------------------------
// Scalar coercion
// ---------------------------------------------------------------------------

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return domain.CloneMap(m)
}

func toInt64(key string, v any) (*int64, error) {
	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int64:
		n = t
	case float64:
		n = int64(t)
	case string:
		parsed, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("is not an integer: %q", t)}
		}
		n = parsed
	default:
		return nil, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("has unsupported type %T", v)}
	}
	return &n, nil
}

func toDecimal(key string, v any) (*decimal.Decimal, error) {
	var d decimal.Decimal
	switch t := v.(type) {
	case decimal.Decimal:
		d = t
	case float64:
		d = decimal.NewFromFloat(t)
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case string:
		parsed, err := decimal.NewFromString(t)
		if err != nil {
			return nil, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("is not a number: %q", t)}
		}
		d = parsed
	default:
		return nil, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("has unsupported type %T", v)}
	}
	return &d, nil
}

func toTime(key string, v any) (*time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return &t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return nil, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("is not an RFC 3339 time: %q", t)}
		}
		return &parsed, nil
	default:
		return nil, &domain.ValidationError{Field: key, Reason: fmt.Sprintf("has unsupported type %T", v)}
	}
}
