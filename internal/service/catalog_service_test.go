package service

import (
	"context"
	"encoding/json"
	"testing"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/model"
	"catalogbooking/internal/pricing"
	"catalogbooking/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryDefaultsTaxOff(t *testing.T) {
	f := newFixture(t)

	res, err := f.catalogs.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Rooms"})
	require.NoError(t, err)
	require.NotNil(t, res.TaxApplicable)
	assert.False(t, *res.TaxApplicable)
	assert.Nil(t, res.TaxPercentage)
	assert.True(t, res.IsActive)
	assert.Equal(t, []string{model.ActionCreateCategory}, f.audit.actions())
}

func TestValidateTax(t *testing.T) {
	cases := []struct {
		name string
		tax  TaxOverrideRequest
		ok   bool
	}{
		{"unset", TaxOverrideRequest{}, true},
		{"explicit off", TaxOverrideRequest{TaxApplicable: boolPtr(false)}, true},
		{"on with percentage", TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("18")}, true},
		{"bounds", TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("100")}, true},
		{"on without percentage", TaxOverrideRequest{TaxApplicable: boolPtr(true)}, false},
		{"percentage without flag", TaxOverrideRequest{TaxPercentage: decPtr("5")}, false},
		{"negative", TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("-1")}, false},
		{"over 100", TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("100.01")}, false},
	}
	for _, tc := range cases {
		err := validateTax(tc.tax)
		if tc.ok {
			assert.NoError(t, err, tc.name)
		} else {
			assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err), tc.name)
		}
	}
}

func TestCreateSubcategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "Spa"})
	require.NoError(t, err)

	sub, err := f.catalogs.CreateSubcategory(ctx, cat.ID, CreateSubcategoryRequest{Name: "Massage"})
	require.NoError(t, err)
	assert.Nil(t, sub.TaxApplicable, "subcategory inherits by default")

	got, err := f.catalogs.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, got.Subcategories, 1)
	assert.Equal(t, "Massage", got.Subcategories[0].Name)

	_, err = f.catalogs.CreateSubcategory(ctx, "7c0d1a52-0000-4000-8000-000000000000", CreateSubcategoryRequest{Name: "Orphan"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{
		Name:               "Venues",
		TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("12")},
	})
	require.NoError(t, err)

	req := CreateItemRequest{
		CategoryID:         cat.ID,
		Name:               "Court 1",
		PricingKind:        "tiered",
		PricingConfig:      json.RawMessage(`{"tiers":[{"max_units":2,"price":40},{"max_units":1,"price":25}]}`),
		IsBookable:         true,
		AvailabilityConfig: json.RawMessage(`{"days":["Monday"],"time_slots":[{"start":"08:00","end":"20:00"}]}`),
		Addons:             []AddonRequest{{Name: "Racket", Price: dec("5")}},
	}
	item, err := f.catalogs.CreateItem(ctx, req)
	require.NoError(t, err)
	assert.True(t, item.IsActive)
	require.Len(t, item.Addons, 1)
	assert.Equal(t, "5.00", item.Addons[0].Price)

	got, err := f.catalogs.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EffectiveTax)
	assert.Equal(t, "category", got.EffectiveTax.Source)
	assert.Equal(t, "12.00", got.EffectiveTax.Percentage)
	assert.Len(t, got.Addons, 1)

	list, total, err := f.catalogs.ListItems(ctx, ItemListFilter{PricingKind: "tiered"}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	_, _, err = f.catalogs.ListItems(ctx, ItemListFilter{PricingKind: "auction"}, pagination.Params{Page: 1, Limit: 20})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	assert.Equal(t, []string{model.ActionCreateCategory, model.ActionCreateItem}, f.audit.actions())
}

func TestCreateItemRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "Venues"})
	require.NoError(t, err)
	sub, err := f.catalogs.CreateSubcategory(ctx, cat.ID, CreateSubcategoryRequest{Name: "Indoor"})
	require.NoError(t, err)

	base := func() CreateItemRequest {
		return CreateItemRequest{
			CategoryID:    cat.ID,
			Name:          "Hall",
			PricingKind:   "static",
			PricingConfig: json.RawMessage(`{"base_price":100}`),
		}
	}

	cases := []struct {
		name   string
		mutate func(*CreateItemRequest)
		kind   apperror.Kind
	}{
		{"both parents", func(r *CreateItemRequest) { r.SubcategoryID = sub.ID }, apperror.KindInvalidInput},
		{"no parent", func(r *CreateItemRequest) { r.CategoryID = "" }, apperror.KindInvalidInput},
		{"missing category", func(r *CreateItemRequest) { r.CategoryID = "0e3c7f40-0000-4000-8000-000000000000" }, apperror.KindNotFound},
		{"bad pricing config", func(r *CreateItemRequest) { r.PricingConfig = json.RawMessage(`{"base_price":-5}`) }, apperror.KindInvalidConfiguration},
		{"empty tiers", func(r *CreateItemRequest) {
			r.PricingKind = "tiered"
			r.PricingConfig = json.RawMessage(`{"tiers":[]}`)
		}, apperror.KindInvalidConfiguration},
		{"unknown kind", func(r *CreateItemRequest) { r.PricingKind = "auction" }, apperror.KindInvalidConfiguration},
		{"bad weekday", func(r *CreateItemRequest) { r.AvailabilityConfig = json.RawMessage(`{"days":["Funday"]}`) }, apperror.KindInvalidConfiguration},
		{"tax too high", func(r *CreateItemRequest) {
			r.TaxApplicable = boolPtr(true)
			r.TaxPercentage = decPtr("150")
		}, apperror.KindInvalidInput},
		{"negative addon", func(r *CreateItemRequest) { r.Addons = []AddonRequest{{Name: "x", Price: dec("-1")}} }, apperror.KindInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base()
			tc.mutate(&req)
			_, err := f.catalogs.CreateItem(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperror.KindOf(err), err.Error())
		})
	}

	req := base()
	req.CategoryID = ""
	req.SubcategoryID = sub.ID
	item, err := f.catalogs.CreateItem(ctx, req)
	require.NoError(t, err)
	assert.Nil(t, item.CategoryID)
	require.NotNil(t, item.SubcategoryID)
	assert.Equal(t, sub.ID, *item.SubcategoryID)
}

func TestDeactivateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "Venues"})
	require.NoError(t, err)
	item, err := f.catalogs.CreateItem(ctx, CreateItemRequest{
		CategoryID:  cat.ID,
		Name:        "Free tour",
		PricingKind: "complimentary",
	})
	require.NoError(t, err)

	res, err := f.catalogs.DeactivateItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, res.IsActive)

	_, err = f.catalogs.DeactivateItem(ctx, item.ID)
	require.NoError(t, err, "deactivation is idempotent")

	_, err = f.pricing.CalculatePrice(ctx, item.ID, pricing.Params{})
	assert.Equal(t, apperror.KindItemInactive, apperror.KindOf(err))

	assert.Equal(t, []string{model.ActionCreateCategory, model.ActionCreateItem, model.ActionDeactivateItem}, f.audit.actions())
}

func TestGetAuditLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "A"})
	require.NoError(t, err)
	_, err = f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "B"})
	require.NoError(t, err)

	svc := NewAuditService(f.audit)
	logs, total, err := svc.GetAuditLogs(ctx, model.ActionCreateCategory, pagination.Params{Page: 1, Limit: 1, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 1)
	assert.Equal(t, "A", logs[0].EntityName)
	assert.Contains(t, string(logs[0].Details), `"name":"A"`)

	f.audit.err = errStoreDown
	_, _, err = svc.GetAuditLogs(ctx, "", pagination.Params{Page: 1, Limit: 20})
	assert.Equal(t, apperror.KindTransientStoreFailure, apperror.KindOf(err))
}

func TestListCategoriesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"Spa", "Day Spa", "Courts"} {
		_, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: name})
		require.NoError(t, err)
	}
	list, _, err := f.catalogs.ListCategories(ctx, CategoryListFilter{}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list, 3)
	_, err = f.catalogs.DeactivateCategory(ctx, list[1].ID)
	require.NoError(t, err)

	active, total, err := f.catalogs.ListCategories(ctx, CategoryListFilter{Search: "spa", Active: boolPtr(true)}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, active, 1)
	assert.True(t, active[0].IsActive)
}

func TestUpdateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "Venues"})
	require.NoError(t, err)

	res, err := f.catalogs.UpdateCategory(ctx, cat.ID, UpdateCategoryRequest{
		Name:               strPtr("Event venues"),
		TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("7.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Event venues", res.Name)
	require.NotNil(t, res.TaxPercentage)
	assert.Equal(t, "7.50", *res.TaxPercentage)

	// The stored percentage carries over when only the flag changes.
	res, err = f.catalogs.UpdateCategory(ctx, cat.ID, UpdateCategoryRequest{
		TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(false)},
	})
	require.NoError(t, err)
	assert.False(t, *res.TaxApplicable)
	assert.Equal(t, "Event venues", res.Name)

	_, err = f.catalogs.UpdateCategory(ctx, cat.ID, UpdateCategoryRequest{
		TaxOverrideRequest: TaxOverrideRequest{TaxPercentage: decPtr("101")},
	})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	_, err = f.catalogs.UpdateCategory(ctx, cat.ID, UpdateCategoryRequest{Name: strPtr("  ")})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	_, err = f.catalogs.UpdateCategory(ctx, "0e3c7f40-0000-4000-8000-000000000000", UpdateCategoryRequest{})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	assert.Equal(t, []string{model.ActionCreateCategory, model.ActionUpdateCategory, model.ActionUpdateCategory}, f.audit.actions())
}

func TestDeactivateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "Venues"})
	require.NoError(t, err)

	res, err := f.catalogs.DeactivateCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.False(t, res.IsActive)

	_, err = f.catalogs.DeactivateCategory(ctx, cat.ID)
	require.NoError(t, err, "deactivation is idempotent")

	got, err := f.catalogs.GetCategory(ctx, cat.ID)
	require.NoError(t, err, "soft deleted categories stay readable")
	assert.False(t, got.IsActive)

	_, err = f.catalogs.DeactivateCategory(ctx, "bad")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	assert.Equal(t, []string{model.ActionCreateCategory, model.ActionDeactivateCategory}, f.audit.actions())
}

func TestUpdateItemRepricesFutureBookingsOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "Courts"})
	require.NoError(t, err)
	item, err := f.catalogs.CreateItem(ctx, CreateItemRequest{
		CategoryID:    cat.ID,
		Name:          "Court 1",
		PricingKind:   "static",
		PricingConfig: json.RawMessage(`{"base_price":100}`),
		IsBookable:    true,
	})
	require.NoError(t, err)

	first, err := f.booking.CreateBooking(ctx, CreateBookingRequest{
		ItemID: item.ID, BookingDate: monday, StartTime: "09:00", EndTime: "10:00", CustomerName: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", first.GrandTotal)

	updated, err := f.catalogs.UpdateItem(ctx, item.ID, UpdateItemRequest{
		PricingKind:   strPtr("tiered"),
		PricingConfig: json.RawMessage(`{"tiers":[{"max_units":1,"price":60},{"max_units":4,"price":150}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "tiered", updated.PricingKind)

	second, err := f.booking.CreateBooking(ctx, CreateBookingRequest{
		ItemID: item.ID, BookingDate: monday, StartTime: "10:00", EndTime: "12:00", CustomerName: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, "150.00", second.GrandTotal)

	stored, err := f.booking.GetBooking(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", stored.GrandTotal, "admitted bookings keep their snapshot")
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{
		Name:               "Venues",
		TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("10")},
	})
	require.NoError(t, err)
	sub, err := f.catalogs.CreateSubcategory(ctx, cat.ID, CreateSubcategoryRequest{
		Name:               "Outdoor",
		TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(false)},
	})
	require.NoError(t, err)
	item, err := f.catalogs.CreateItem(ctx, CreateItemRequest{
		CategoryID:         cat.ID,
		Name:               "Hall",
		PricingKind:        "static",
		PricingConfig:      json.RawMessage(`{"base_price":100}`),
		AvailabilityConfig: json.RawMessage(`{"days":["Monday"]}`),
		TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(true), TaxPercentage: decPtr("20")},
	})
	require.NoError(t, err)

	res, err := f.catalogs.UpdateItem(ctx, item.ID, UpdateItemRequest{
		SubcategoryID:      &sub.ID,
		Description:        strPtr("Garden hall"),
		IsBookable:         boolPtr(true),
		AvailabilityConfig: json.RawMessage(`null`),
		InheritTax:         true,
	})
	require.NoError(t, err)
	assert.Nil(t, res.CategoryID)
	require.NotNil(t, res.SubcategoryID)
	assert.Equal(t, sub.ID, *res.SubcategoryID)
	assert.Equal(t, "Garden hall", res.Description)
	assert.Equal(t, "Hall", res.Name)
	assert.True(t, res.IsBookable)
	assert.Empty(t, res.AvailabilityConfig)
	assert.Nil(t, res.TaxApplicable)
	require.NotNil(t, res.EffectiveTax)
	assert.Equal(t, "subcategory", res.EffectiveTax.Source)
	assert.False(t, res.EffectiveTax.Applicable)

	last := f.audit.entries[len(f.audit.entries)-1]
	assert.Equal(t, model.ActionUpdateItem, last.Action)
	assert.Contains(t, string(last.Details), `"subcategory_id"`)
	assert.Contains(t, string(last.Details), `"availability_config"`)
}

func TestUpdateItemRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat, err := f.catalogs.CreateCategory(ctx, CreateCategoryRequest{Name: "Venues"})
	require.NoError(t, err)
	item, err := f.catalogs.CreateItem(ctx, CreateItemRequest{
		CategoryID:    cat.ID,
		Name:          "Hall",
		PricingKind:   "static",
		PricingConfig: json.RawMessage(`{"base_price":100}`),
	})
	require.NoError(t, err)
	missing := "0e3c7f40-0000-4000-8000-000000000000"

	cases := []struct {
		name string
		req  UpdateItemRequest
		kind apperror.Kind
	}{
		{"both parents", UpdateItemRequest{CategoryID: &cat.ID, SubcategoryID: &cat.ID}, apperror.KindInvalidInput},
		{"missing category", UpdateItemRequest{CategoryID: &missing}, apperror.KindNotFound},
		{"missing subcategory", UpdateItemRequest{SubcategoryID: &missing}, apperror.KindNotFound},
		{"kind without matching config", UpdateItemRequest{PricingKind: strPtr("dynamic")}, apperror.KindInvalidConfiguration},
		{"bad config", UpdateItemRequest{PricingConfig: json.RawMessage(`{"base_price":-1}`)}, apperror.KindInvalidConfiguration},
		{"bad availability", UpdateItemRequest{AvailabilityConfig: json.RawMessage(`{"time_slots":[{"start":"10:00","end":"09:00"}]}`)}, apperror.KindInvalidConfiguration},
		{"tax on without percentage", UpdateItemRequest{TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(true)}}, apperror.KindInvalidInput},
		{"inherit with override", UpdateItemRequest{InheritTax: true, TaxOverrideRequest: TaxOverrideRequest{TaxApplicable: boolPtr(false)}}, apperror.KindInvalidInput},
		{"empty name", UpdateItemRequest{Name: strPtr("")}, apperror.KindInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.catalogs.UpdateItem(ctx, item.ID, tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperror.KindOf(err), err.Error())
		})
	}

	_, err = f.catalogs.UpdateItem(ctx, missing, UpdateItemRequest{Name: strPtr("x")})
	assert.Equal(t, apperror.KindItemNotFound, apperror.KindOf(err))

	got, err := f.catalogs.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "static", got.PricingKind, "rejected updates leave the item unchanged")
	assert.Equal(t, []string{model.ActionCreateCategory, model.ActionCreateItem}, f.audit.actions())
}
