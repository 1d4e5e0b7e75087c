package service

import (
	"context"
	"sync"
	"testing"

	"catalogbooking/internal/events"
	"catalogbooking/internal/lock"
	"catalogbooking/internal/model"
	"catalogbooking/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BookingEvent
}

func (r *recordingPublisher) Publish(_ context.Context, ev events.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	catalog   *fakeCatalogRepo
	bookings  *fakeBookingRepo
	audit     *fakeAuditRepo
	tx        *fakeTxManager
	publisher *recordingPublisher
	pricing   PricingService
	booking   BookingService
	catalogs  CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		catalog:   newFakeCatalogRepo(),
		bookings:  newFakeBookingRepo(),
		audit:     &fakeAuditRepo{},
		tx:        &fakeTxManager{},
		publisher: &recordingPublisher{},
	}
	f.pricing = NewPricingService(f.catalog)
	f.booking = NewBookingService(f.catalog, f.bookings, f.audit, f.tx, f.pricing, lock.NewKeyedMutex(), f.publisher)
	f.catalogs = NewCatalogService(f.catalog, f.audit, f.tx)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

// category seeds a category with the given tax override.
func (f *fixture) category(applicable *bool, pct *decimal.Decimal) model.Category {
	c := model.Category{ID: uuid.New(), Name: "Category " + uuid.NewString()[:8], TaxApplicable: applicable, TaxPercentage: pct, IsActive: true}
	f.catalog.categories[c.ID] = c
	return c
}

type itemOpt func(*model.Item)

func bookable(availability string) itemOpt {
	return func(i *model.Item) {
		i.IsBookable = true
		if availability != "" {
			i.AvailabilityConfig = datatypes.JSON(availability)
		}
	}
}

func inactive() itemOpt {
	return func(i *model.Item) { i.IsActive = false }
}

// item seeds an active item under category with the given pricing.
func (f *fixture) item(category model.Category, kind pricing.Kind, config string, opts ...itemOpt) model.Item {
	catID := category.ID
	i := model.Item{
		ID:            uuid.New(),
		CategoryID:    &catID,
		Name:          "Item " + string(kind),
		PricingKind:   kind,
		PricingConfig: datatypes.JSON(config),
		IsActive:      true,
	}
	for _, opt := range opts {
		opt(&i)
	}
	f.catalog.items[i.ID] = i
	return i
}

func (f *fixture) addon(item model.Item, price string, active bool) model.Addon {
	a := model.Addon{ID: uuid.New(), ItemID: item.ID, Name: "Addon " + price, Price: dec(price), IsActive: active}
	f.catalog.addons[a.ID] = a
	return a
}

func bookingRequest(item model.Item, date, start, end string) CreateBookingRequest {
	return CreateBookingRequest{
		ItemID:       item.ID.String(),
		BookingDate:  date,
		StartTime:    start,
		EndTime:      end,
		CustomerName: "Ada",
	}
}

func subcategoryFixture(id, categoryID uuid.UUID, applicable *bool, pct *decimal.Decimal) model.Subcategory {
	return model.Subcategory{ID: id, CategoryID: categoryID, Name: "Sub", TaxApplicable: applicable, TaxPercentage: pct, IsActive: true}
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return id
}
