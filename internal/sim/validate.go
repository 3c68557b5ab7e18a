package sim

import "fxsim/internal/domain"

// Compile-time interface check.
var _ Validator = OrderValidator{}

// OrderValidator applies the pre-trade checks every candidate order must
// pass. It inspects parameters only; it never reads or touches account
// state, which is what lets submit and modify fail without side effects.
type OrderValidator struct{}

// Validate checks pair, side, units, type, and the option set. It returns a
// *domain.ValidationError describing the first rule violated.
func (OrderValidator) Validate(pair string, side domain.Side, units int64, typ domain.OrderType, opts *domain.OrderOptions) error {
	if pair == "" {
		return &domain.ValidationError{Field: "pair", Reason: "must not be empty"}
	}
	if side != domain.SideBuy && side != domain.SideSell {
		return &domain.ValidationError{Field: "side", Reason: "must be buy or sell"}
	}
	if units <= 0 {
		return &domain.ValidationError{Field: "units", Reason: "must be positive"}
	}

	switch typ {
	case domain.OrderTypeMarket:
		// Market orders resolve their price from the current tick.
	case domain.OrderTypeLimit, domain.OrderTypeStop, domain.OrderTypeMarketIfTouched:
		if opts == nil || opts.Price == nil || !opts.Price.IsPositive() {
			return &domain.ValidationError{Field: "price", Reason: "is required for " + string(typ) + " orders"}
		}
	default:
		return &domain.ValidationError{Field: "type", Reason: "is unknown: " + string(typ)}
	}

	if opts != nil {
		if opts.TimeInForce == domain.TIFGoodTilDate && opts.GTDTime == nil {
			return &domain.ValidationError{Field: "gtdTime", Reason: "is required with GTD time in force"}
		}
		if opts.PriceBound != nil && !opts.PriceBound.IsPositive() {
			return &domain.ValidationError{Field: "priceBound", Reason: "must be positive"}
		}
	}
	return nil
}
