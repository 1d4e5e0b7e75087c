package pricing

import (
	"sort"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/timeslot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Params are the call-time inputs of a price request. Addons are priced
// separately from the base price.
type Params struct {
	Units    *decimal.Decimal
	Duration *decimal.Decimal
	Time     *timeslot.Clock
	AddonIDs []uuid.UUID
}

// Quote is the base price produced by a pricing strategy.
type Quote struct {
	BasePrice decimal.Decimal
	Details   Details
}

// Details explains how a strategy arrived at its price. Static and
// complimentary pricing carry none.
type Details interface {
	details()
}

type TierDetails struct {
	Quantity decimal.Decimal `json:"quantity"`
	Tier     string          `json:"tier"`
	Capped   bool            `json:"capped,omitempty"`
}

type DiscountDetails struct {
	OriginalPrice  decimal.Decimal `json:"original_price"`
	DiscountType   DiscountType    `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

type WindowDetails struct {
	RequestedTime timeslot.Clock `json:"requested_time"`
	Window        string         `json:"window"`
}

func (TierDetails) details()     {}
func (DiscountDetails) details() {}
func (WindowDetails) details()   {}

// Price dispatches on the configuration variant and computes the base price.
func Price(cfg Config, params Params) (Quote, error) {
	switch c := cfg.(type) {
	case StaticConfig:
		return Quote{BasePrice: c.BasePrice}, nil
	case TieredConfig:
		return priceTiered(c, params)
	case ComplimentaryConfig:
		return Quote{BasePrice: decimal.Zero}, nil
	case DiscountedConfig:
		return priceDiscounted(c), nil
	case DynamicConfig:
		return priceDynamic(c, params)
	case nil:
		return Quote{}, apperror.New(apperror.KindInvalidConfiguration, "missing pricing configuration")
	}
	return Quote{}, apperror.Newf(apperror.KindInvalidConfiguration, "unknown pricing kind %q", cfg.Kind())
}

func priceTiered(c TieredConfig, params Params) (Quote, error) {
	qty, ok := quantity(params)
	if !ok {
		return Quote{}, apperror.New(apperror.KindMissingParameter, "units or duration required for tiered pricing")
	}
	if len(c.Tiers) == 0 {
		return Quote{}, apperror.New(apperror.KindInvalidConfiguration, "tiered pricing requires at least one tier")
	}

	tiers := make([]Tier, len(c.Tiers))
	copy(tiers, c.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MaxUnits.LessThan(tiers[j].MaxUnits)
	})

	for _, t := range tiers {
		if qty.LessThanOrEqual(t.MaxUnits) {
			return Quote{
				BasePrice: t.Price,
				Details:   TierDetails{Quantity: qty, Tier: tierLabel(t)},
			}, nil
		}
	}

	// Above every tier: charge the highest one.
	top := tiers[len(tiers)-1]
	return Quote{
		BasePrice: top.Price,
		Details:   TierDetails{Quantity: qty, Tier: tierLabel(top), Capped: true},
	}, nil
}

func quantity(params Params) (decimal.Decimal, bool) {
	if params.Units != nil && !params.Units.IsZero() {
		return *params.Units, true
	}
	if params.Duration != nil && !params.Duration.IsZero() {
		return *params.Duration, true
	}
	return decimal.Zero, false
}

func tierLabel(t Tier) string {
	return "up to " + t.MaxUnits.String() + " units"
}

func priceDiscounted(c DiscountedConfig) Quote {
	var amount decimal.Decimal
	switch c.Discount.Type {
	case DiscountPercentage:
		amount = c.BasePrice.Mul(c.Discount.Value).Div(hundred)
	case DiscountFlat:
		amount = c.Discount.Value
	}

	return Quote{
		BasePrice: decimal.Max(decimal.Zero, c.BasePrice.Sub(amount)),
		Details: DiscountDetails{
			OriginalPrice:  c.BasePrice,
			DiscountType:   c.Discount.Type,
			DiscountValue:  c.Discount.Value,
			DiscountAmount: amount,
		},
	}
}

func priceDynamic(c DynamicConfig, params Params) (Quote, error) {
	if params.Time == nil {
		return Quote{}, apperror.New(apperror.KindMissingParameter, "time required for dynamic pricing")
	}
	at := *params.Time

	// Configured order, first match wins.
	for _, w := range c.TimeWindows {
		if w.Range().Contains(at) {
			return Quote{
				BasePrice: w.Price,
				Details:   WindowDetails{RequestedTime: at, Window: w.Range().String()},
			}, nil
		}
	}
	return Quote{}, apperror.New(apperror.KindUnavailable, "item not available at requested time")
}
