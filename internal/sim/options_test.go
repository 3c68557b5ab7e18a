package sim

import (
	"errors"
	"testing"
	"time"

	"fxsim/internal/domain"
)

func TestFromWireToWireRoundTrip(t *testing.T) {
	tr := WireTranslator{}
	wire := map[string]any{
		"units":            int64(100),
		"price":            "1.0950",
		"timeInForce":      "GTD",
		"positionFill":     "DEFAULT",
		"triggerCondition": "DEFAULT",
		"clientExtensions": map[string]any{"id": "client-1", "tag": "swing"},
		"takeProfitOnFill": map[string]any{"price": "1.1200"},
		"stopLossOnFill":   map[string]any{"price": "1.0800", "timeInForce": "GTC"},
		"gtdTime":          "2024-06-01T12:00:00Z",
		"priceBound":       "1.1000",
	}

	opts, err := tr.FromWire(wire)
	if err != nil {
		t.Fatalf("FromWire returned error: %v", err)
	}
	if opts.Units == nil || *opts.Units != 100 {
		t.Errorf("Units = %v, want 100", opts.Units)
	}
	if opts.Price == nil || opts.Price.String() != "1.095" {
		t.Errorf("Price = %v, want 1.095", opts.Price)
	}
	if opts.TimeInForce != domain.TIFGoodTilDate {
		t.Errorf("TimeInForce = %q, want GTD", opts.TimeInForce)
	}
	if opts.GTDTime == nil || !opts.GTDTime.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("GTDTime = %v, want 2024-06-01T12:00:00Z", opts.GTDTime)
	}
	if got := opts.StopLossOnFill["timeInForce"]; got != "GTC" {
		t.Errorf("StopLossOnFill[timeInForce] = %v, want GTC", got)
	}

	back := tr.ToWire(opts)
	for _, key := range []string{
		"units", "price", "timeInForce", "positionFill", "triggerCondition",
		"clientExtensions", "takeProfitOnFill", "stopLossOnFill", "gtdTime", "priceBound",
	} {
		if _, ok := back[key]; !ok {
			t.Errorf("ToWire lost key %q", key)
		}
	}
	if got := back["units"]; got != int64(100) {
		t.Errorf("ToWire units = %v, want 100", got)
	}
	if got := back["gtdTime"]; got != "2024-06-01T12:00:00Z" {
		t.Errorf("ToWire gtdTime = %v, want RFC 3339 string", got)
	}
	nested, ok := back["clientExtensions"].(map[string]any)
	if !ok || nested["id"] != "client-1" {
		t.Errorf("ToWire clientExtensions = %v, want nested map with id", back["clientExtensions"])
	}
}

func TestFromWireScalarForms(t *testing.T) {
	tr := WireTranslator{}

	// JSON decoding hands numbers over as float64; native ints and numeric
	// strings must work too.
	for _, v := range []any{float64(100), int(100), int64(100), "100"} {
		opts, err := tr.FromWire(map[string]any{"units": v})
		if err != nil {
			t.Fatalf("FromWire(units=%T) returned error: %v", v, err)
		}
		if opts.Units == nil || *opts.Units != 100 {
			t.Errorf("FromWire(units=%T) = %v, want 100", v, opts.Units)
		}
	}

	for _, v := range []any{"1.0950", float64(1.0950)} {
		opts, err := tr.FromWire(map[string]any{"price": v})
		if err != nil {
			t.Fatalf("FromWire(price=%T) returned error: %v", v, err)
		}
		if opts.Price == nil || opts.Price.String() != "1.095" {
			t.Errorf("FromWire(price=%T) = %v, want 1.095", v, opts.Price)
		}
	}
}

func TestFromWireBadValues(t *testing.T) {
	tr := WireTranslator{}

	tests := []struct {
		name string
		wire map[string]any
	}{
		{"units not a number", map[string]any{"units": "lots"}},
		{"units wrong type", map[string]any{"units": []any{1}}},
		{"price not a number", map[string]any{"price": "expensive"}},
		{"gtdTime not a time", map[string]any{"gtdTime": "tomorrow"}},
		{"priceBound wrong type", map[string]any{"priceBound": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.FromWire(tt.wire)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("FromWire error = %v, want ValidationError", err)
			}
		})
	}
}

func TestFromWireIgnoresUnknownKeys(t *testing.T) {
	tr := WireTranslator{}
	opts, err := tr.FromWire(map[string]any{"venue": "dark pool", "units": int64(5)})
	if err != nil {
		t.Fatalf("FromWire returned error: %v", err)
	}
	if opts.Units == nil || *opts.Units != 5 {
		t.Errorf("Units = %v, want 5", opts.Units)
	}
}

func TestFromWireClonesNestedMaps(t *testing.T) {
	tr := WireTranslator{}
	wire := map[string]any{
		"clientExtensions": map[string]any{"id": "client-1"},
	}
	opts, err := tr.FromWire(wire)
	if err != nil {
		t.Fatalf("FromWire returned error: %v", err)
	}

	wire["clientExtensions"].(map[string]any)["id"] = "tampered"
	if got := opts.ClientExtensions["id"]; got != "client-1" {
		t.Errorf("ClientExtensions[id] = %v, want client-1 (input map must not be retained)", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	market := &domain.OrderOptions{}
	applyDefaults(domain.OrderTypeMarket, market)
	if market.TimeInForce != domain.TIFFillOrKill {
		t.Errorf("market TimeInForce = %q, want FOK", market.TimeInForce)
	}
	if market.PositionFill != domain.PositionFillDefault {
		t.Errorf("market PositionFill = %q, want DEFAULT", market.PositionFill)
	}
	if market.TriggerCondition != "" {
		t.Errorf("market TriggerCondition = %q, want empty", market.TriggerCondition)
	}

	limit := &domain.OrderOptions{}
	applyDefaults(domain.OrderTypeLimit, limit)
	if limit.TimeInForce != domain.TIFGoodTilCancel {
		t.Errorf("limit TimeInForce = %q, want GTC", limit.TimeInForce)
	}
	if limit.TriggerCondition != domain.TriggerDefault {
		t.Errorf("limit TriggerCondition = %q, want DEFAULT", limit.TriggerCondition)
	}

	// Caller-supplied values are never overridden.
	explicit := &domain.OrderOptions{TimeInForce: domain.TIFImmediate}
	applyDefaults(domain.OrderTypeMarket, explicit)
	if explicit.TimeInForce != domain.TIFImmediate {
		t.Errorf("explicit TimeInForce = %q, want IOC", explicit.TimeInForce)
	}
}
