package pricing

import "github.com/shopspring/decimal"

// TaxSource records which level of the catalog hierarchy a tax policy came from.
type TaxSource string

const (
	TaxFromItem        TaxSource = "item"
	TaxFromSubcategory TaxSource = "subcategory"
	TaxFromCategory    TaxSource = "category"
	TaxFromDefault     TaxSource = "default"
)

// TaxOverride is the optional tax setting carried by an item, subcategory or
// category. A nil Applicable means "inherit".
type TaxOverride struct {
	Applicable *bool
	Percentage *decimal.Decimal
}

func (o TaxOverride) set() bool {
	return o.Applicable != nil
}

func (o TaxOverride) policy(source TaxSource) TaxPolicy {
	p := TaxPolicy{Percentage: decimal.Zero, Source: source}
	if o.Applicable != nil {
		p.Applicable = *o.Applicable
	}
	if o.Percentage != nil {
		p.Percentage = *o.Percentage
	}
	return p
}

// TaxPolicy is the effective tax setting of an item.
type TaxPolicy struct {
	Applicable bool
	Percentage decimal.Decimal
	Source     TaxSource
}

// Amount is the tax due on subtotal under this policy.
func (p TaxPolicy) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if !p.Applicable {
		return decimal.Zero
	}
	return subtotal.Mul(p.Percentage).Div(hundred)
}

// ResolveTax walks item -> subcategory -> category and returns the first level
// that sets a policy. category is the subcategory's parent when the item sits
// under a subcategory, otherwise the item's own category; either ancestor may
// be nil. A category that sets nothing still terminates the walk as "not
// applicable". Resolution never fails.
func ResolveTax(item TaxOverride, subcategory, category *TaxOverride) TaxPolicy {
	if item.set() {
		return item.policy(TaxFromItem)
	}
	if subcategory != nil && subcategory.set() {
		return subcategory.policy(TaxFromSubcategory)
	}
	if category != nil {
		return category.policy(TaxFromCategory)
	}
	return TaxPolicy{Applicable: false, Percentage: decimal.Zero, Source: TaxFromDefault}
}
