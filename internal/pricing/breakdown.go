package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places money is rounded to on output.
const MoneyPlaces = 2

type AddonLine struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

type TaxLine struct {
	Applicable bool
	Percentage decimal.Decimal
	Amount     decimal.Decimal
	Source     TaxSource
}

// Breakdown is the full monetary result of pricing one item. Amounts are
// already rounded to MoneyPlaces.
type Breakdown struct {
	Kind        Kind
	BasePrice   decimal.Decimal
	Details     Details
	Addons      []AddonLine
	AddonsTotal decimal.Decimal
	Subtotal    decimal.Decimal
	Tax         TaxLine
	GrandTotal  decimal.Decimal
}

func SumAddons(addons []AddonLine) decimal.Decimal {
	total := decimal.Zero
	for _, a := range addons {
		total = total.Add(a.Price)
	}
	return total
}

// Compose combines a strategy quote, the selected addons and the tax policy.
// Arithmetic runs at full precision and is rounded only on the way out.
func Compose(kind Kind, quote Quote, addons []AddonLine, tax TaxPolicy) Breakdown {
	addonsTotal := SumAddons(addons)
	subtotal := quote.BasePrice.Add(addonsTotal)
	taxAmount := tax.Amount(subtotal)
	grandTotal := subtotal.Add(taxAmount)

	lines := make([]AddonLine, 0, len(addons))
	for _, a := range addons {
		lines = append(lines, AddonLine{ID: a.ID, Name: a.Name, Price: round(a.Price)})
	}

	return Breakdown{
		Kind:        kind,
		BasePrice:   round(quote.BasePrice),
		Details:     quote.Details,
		Addons:      lines,
		AddonsTotal: round(addonsTotal),
		Subtotal:    round(subtotal),
		Tax: TaxLine{
			Applicable: tax.Applicable,
			Percentage: tax.Percentage,
			Amount:     round(taxAmount),
			Source:     tax.Source,
		},
		GrandTotal: round(grandTotal),
	}
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
