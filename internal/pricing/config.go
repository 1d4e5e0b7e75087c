package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/timeslot"

	"github.com/shopspring/decimal"
)

// Kind names one of the five pricing strategies an item can use.
type Kind string

const (
	KindStatic        Kind = "static"
	KindTiered        Kind = "tiered"
	KindComplimentary Kind = "complimentary"
	KindDiscounted    Kind = "discounted"
	KindDynamic       Kind = "dynamic"
)

// Kinds lists every supported pricing kind.
var Kinds = []Kind{KindStatic, KindTiered, KindComplimentary, KindDiscounted, KindDynamic}

func (k Kind) Valid() bool {
	switch k {
	case KindStatic, KindTiered, KindComplimentary, KindDiscounted, KindDynamic:
		return true
	}
	return false
}

// Config is the pricing configuration of an item. Exactly one concrete type
// exists per Kind; the set is closed to this package.
type Config interface {
	Kind() Kind
	sealed()
}

type StaticConfig struct {
	BasePrice decimal.Decimal `json:"base_price"`
}

type Tier struct {
	MaxUnits decimal.Decimal `json:"max_units"`
	Price    decimal.Decimal `json:"price"`
}

type TieredConfig struct {
	Tiers []Tier `json:"tiers"`
}

type ComplimentaryConfig struct{}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

type Discount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

type DiscountedConfig struct {
	BasePrice decimal.Decimal `json:"base_price"`
	Discount  Discount        `json:"discount"`
}

type TimeWindow struct {
	Start timeslot.Clock  `json:"start"`
	End   timeslot.Clock  `json:"end"`
	Price decimal.Decimal `json:"price"`
}

func (w TimeWindow) Range() timeslot.Range {
	return timeslot.Range{Start: w.Start, End: w.End}
}

type DynamicConfig struct {
	TimeWindows []TimeWindow `json:"time_windows"`
}

func (StaticConfig) Kind() Kind        { return KindStatic }
func (TieredConfig) Kind() Kind        { return KindTiered }
func (ComplimentaryConfig) Kind() Kind { return KindComplimentary }
func (DiscountedConfig) Kind() Kind    { return KindDiscounted }
func (DynamicConfig) Kind() Kind       { return KindDynamic }

func (StaticConfig) sealed()        {}
func (TieredConfig) sealed()        {}
func (ComplimentaryConfig) sealed() {}
func (DiscountedConfig) sealed()    {}
func (DynamicConfig) sealed()       {}

// ParseConfig decodes the stored JSON configuration for kind into its variant.
// Malformed or incomplete configuration fails with KindInvalidConfiguration.
func ParseConfig(kind Kind, raw []byte) (Config, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}

	switch kind {
	case KindStatic:
		var in struct {
			BasePrice *decimal.Decimal `json:"base_price"`
		}
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		cfg := StaticConfig{BasePrice: decimal.Zero}
		if in.BasePrice != nil {
			cfg.BasePrice = *in.BasePrice
		}
		if cfg.BasePrice.IsNegative() {
			return nil, invalid("base_price cannot be negative")
		}
		return cfg, nil

	case KindTiered:
		var cfg TieredConfig
		if err := decode(raw, &cfg); err != nil {
			return nil, err
		}
		if len(cfg.Tiers) == 0 {
			return nil, invalid("tiered pricing requires at least one tier")
		}
		for i, t := range cfg.Tiers {
			if t.MaxUnits.IsNegative() || t.Price.IsNegative() {
				return nil, invalid(fmt.Sprintf("tier %d: max_units and price cannot be negative", i))
			}
		}
		return cfg, nil

	case KindComplimentary:
		return ComplimentaryConfig{}, nil

	case KindDiscounted:
		var in struct {
			BasePrice *decimal.Decimal `json:"base_price"`
			Discount  *struct {
				Type  DiscountType     `json:"type"`
				Value *decimal.Decimal `json:"value"`
			} `json:"discount"`
		}
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		if in.BasePrice == nil {
			return nil, invalid("discounted pricing requires base_price")
		}
		if in.Discount == nil || in.Discount.Value == nil {
			return nil, invalid("discounted pricing requires discount.type and discount.value")
		}
		if in.Discount.Type != DiscountPercentage && in.Discount.Type != DiscountFlat {
			return nil, invalid(fmt.Sprintf("discount type must be %q or %q", DiscountPercentage, DiscountFlat))
		}
		if in.BasePrice.IsNegative() || in.Discount.Value.IsNegative() {
			return nil, invalid("base_price and discount value cannot be negative")
		}
		return DiscountedConfig{
			BasePrice: *in.BasePrice,
			Discount:  Discount{Type: in.Discount.Type, Value: *in.Discount.Value},
		}, nil

	case KindDynamic:
		var cfg DynamicConfig
		if err := decode(raw, &cfg); err != nil {
			return nil, err
		}
		if len(cfg.TimeWindows) == 0 {
			return nil, invalid("dynamic pricing requires at least one time window")
		}
		for i, w := range cfg.TimeWindows {
			if !w.Range().Valid() {
				return nil, invalid(fmt.Sprintf("time window %d: start must be before end", i))
			}
			if w.Price.IsNegative() {
				return nil, invalid(fmt.Sprintf("time window %d: price cannot be negative", i))
			}
		}
		return cfg, nil
	}

	return nil, invalid(fmt.Sprintf("unknown pricing kind %q", kind))
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return apperror.Wrap(apperror.KindInvalidConfiguration, err, "malformed pricing configuration")
	}
	return nil
}

func invalid(msg string) error {
	return apperror.New(apperror.KindInvalidConfiguration, msg)
}
