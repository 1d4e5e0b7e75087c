package service

import (
	"context"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/model"
	"catalogbooking/internal/pricing"
	"catalogbooking/internal/repository"

	"github.com/shopspring/decimal"
)

type AddonLineResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type TaxResponse struct {
	Applicable bool   `json:"applicable"`
	Percentage string `json:"percentage"`
	Amount     string `json:"amount"`
	Source     string `json:"source"`
}

type PriceBreakdownResponse struct {
	ItemID      string              `json:"item_id"`
	ItemName    string              `json:"item_name"`
	PricingKind string              `json:"pricing_kind"`
	BasePrice   string              `json:"base_price"`
	Details     pricing.Details     `json:"details,omitempty" swaggertype:"object"`
	Addons      []AddonLineResponse `json:"addons"`
	AddonsTotal string              `json:"addons_total"`
	Subtotal    string              `json:"subtotal"`
	Tax         TaxResponse         `json:"tax"`
	GrandTotal  string              `json:"grand_total"`
}

type PricingService interface {
	CalculatePrice(ctx context.Context, itemID string, params pricing.Params) (PriceBreakdownResponse, error)
	// Breakdown prices an already loaded item. The item must carry its
	// category chain.
	Breakdown(ctx context.Context, item *model.Item, params pricing.Params) (pricing.Breakdown, error)
}

type pricingService struct {
	catalogRepo repository.CatalogRepository
}

func NewPricingService(catalogRepo repository.CatalogRepository) PricingService {
	return &pricingService{catalogRepo: catalogRepo}
}

func (s *pricingService) CalculatePrice(ctx context.Context, itemID string, params pricing.Params) (PriceBreakdownResponse, error) {
	id, err := parseID(itemID, "item")
	if err != nil {
		return PriceBreakdownResponse{}, err
	}

	item, err := s.catalogRepo.FindItemWithAncestors(ctx, id)
	if err != nil {
		return PriceBreakdownResponse{}, storeError(err, apperror.KindItemNotFound, "item")
	}
	if !item.IsActive {
		return PriceBreakdownResponse{}, apperror.New(apperror.KindItemInactive, "item is not active")
	}

	b, err := s.Breakdown(ctx, item, params)
	if err != nil {
		return PriceBreakdownResponse{}, err
	}
	return toBreakdownResponse(item, b), nil
}

func (s *pricingService) Breakdown(ctx context.Context, item *model.Item, params pricing.Params) (pricing.Breakdown, error) {
	cfg, err := item.Pricing()
	if err != nil {
		return pricing.Breakdown{}, err
	}
	quote, err := pricing.Price(cfg, params)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	addons, err := s.catalogRepo.FindActiveAddons(ctx, item.ID, params.AddonIDs)
	if err != nil {
		return pricing.Breakdown{}, apperror.Transient(err, "failed to load addons")
	}
	lines := make([]pricing.AddonLine, 0, len(addons))
	for _, a := range addons {
		lines = append(lines, pricing.AddonLine{ID: a.ID, Name: a.Name, Price: a.Price})
	}

	subcategory, category := item.TaxAncestors()
	tax := pricing.ResolveTax(item.TaxOverride(), subcategory, category)

	return pricing.Compose(cfg.Kind(), quote, lines, tax), nil
}

func toBreakdownResponse(item *model.Item, b pricing.Breakdown) PriceBreakdownResponse {
	addons := make([]AddonLineResponse, 0, len(b.Addons))
	for _, a := range b.Addons {
		addons = append(addons, AddonLineResponse{ID: a.ID.String(), Name: a.Name, Price: money(a.Price)})
	}
	return PriceBreakdownResponse{
		ItemID:      item.ID.String(),
		ItemName:    item.Name,
		PricingKind: string(b.Kind),
		BasePrice:   money(b.BasePrice),
		Details:     b.Details,
		Addons:      addons,
		AddonsTotal: money(b.AddonsTotal),
		Subtotal:    money(b.Subtotal),
		Tax: TaxResponse{
			Applicable: b.Tax.Applicable,
			Percentage: money(b.Tax.Percentage),
			Amount:     money(b.Tax.Amount),
			Source:     string(b.Tax.Source),
		},
		GrandTotal: money(b.GrandTotal),
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(pricing.MoneyPlaces)
}
