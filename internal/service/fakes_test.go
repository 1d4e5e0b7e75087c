package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"catalogbooking/internal/model"
	"catalogbooking/internal/repository"
	"catalogbooking/internal/timeslot"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(ctx)
}

type fakeCatalogRepo struct {
	mu            sync.Mutex
	categories    map[uuid.UUID]model.Category
	subcategories map[uuid.UUID]model.Subcategory
	items         map[uuid.UUID]model.Item
	addons        map[uuid.UUID]model.Addon
	err           error
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		categories:    map[uuid.UUID]model.Category{},
		subcategories: map[uuid.UUID]model.Subcategory{},
		items:         map[uuid.UUID]model.Item{},
		addons:        map[uuid.UUID]model.Addon{},
	}
}

func (f *fakeCatalogRepo) CreateCategory(_ context.Context, c *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	f.categories[c.ID] = *c
	return nil
}

func (f *fakeCatalogRepo) UpdateCategory(_ context.Context, c *model.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	stored := *c
	stored.Subcategories = nil
	f.categories[c.ID] = stored
	return nil
}

func (f *fakeCatalogRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, s := range f.subcategories {
		if s.CategoryID == id && s.IsActive {
			c.Subcategories = append(c.Subcategories, s)
		}
	}
	return &c, nil
}

func (f *fakeCatalogRepo) ListCategories(_ context.Context, filter repository.CategoryFilter, offset, limit int) ([]model.Category, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Category
	for _, c := range f.categories {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	return out[offset:min(len(out), offset+limit)], total, nil
}

func (f *fakeCatalogRepo) CreateSubcategory(_ context.Context, s *model.Subcategory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.subcategories[s.ID] = *s
	return nil
}

func (f *fakeCatalogRepo) FindSubcategoryByID(_ context.Context, id uuid.UUID) (*model.Subcategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subcategories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeCatalogRepo) CreateItem(_ context.Context, item *model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	for i := range item.Addons {
		if item.Addons[i].ID == uuid.Nil {
			item.Addons[i].ID = uuid.New()
		}
		item.Addons[i].ItemID = item.ID
		f.addons[item.Addons[i].ID] = item.Addons[i]
	}
	stored := *item
	stored.Addons = nil
	f.items[item.ID] = stored
	return nil
}

func (f *fakeCatalogRepo) UpdateItem(_ context.Context, item *model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *item
	stored.Addons = nil
	f.items[item.ID] = stored
	return nil
}

func (f *fakeCatalogRepo) FindItemByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (f *fakeCatalogRepo) FindItemWithAncestors(_ context.Context, id uuid.UUID) (*model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if item.CategoryID != nil {
		if c, ok := f.categories[*item.CategoryID]; ok {
			item.Category = &c
		}
	}
	if item.SubcategoryID != nil {
		if s, ok := f.subcategories[*item.SubcategoryID]; ok {
			if c, ok := f.categories[s.CategoryID]; ok {
				s.Category = &c
			}
			item.Subcategory = &s
		}
	}
	item.Addons = nil
	for _, a := range f.addons {
		if a.ItemID == id && a.IsActive {
			item.Addons = append(item.Addons, a)
		}
	}
	return &item, nil
}

func (f *fakeCatalogRepo) ListItems(_ context.Context, filter repository.ItemFilter, offset, limit int) ([]model.Item, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Item
	for _, item := range f.items {
		if filter.PricingKind != "" && item.PricingKind != filter.PricingKind {
			continue
		}
		if filter.IsActive != nil && item.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, item)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	return out[offset:min(len(out), offset+limit)], total, nil
}

func (f *fakeCatalogRepo) FindActiveAddons(_ context.Context, itemID uuid.UUID, ids []uuid.UUID) ([]model.Addon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Addon
	for _, id := range ids {
		a, ok := f.addons[id]
		if !ok || !a.IsActive || a.ItemID != itemID {
			continue
		}
		if slices.ContainsFunc(out, func(x model.Addon) bool { return x.ID == id }) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]model.Booking
	dayLocks  int
	createErr error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]model.Booking{}}
}

func (f *fakeBookingRepo) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) Update(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.UpdatedAt = time.Now()
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (f *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBookingRepo) LockItemDay(context.Context, uuid.UUID, time.Time) error {
	f.mu.Lock()
	f.dayLocks++
	f.mu.Unlock()
	return nil
}

func (f *fakeBookingRepo) ListActive(_ context.Context, itemID uuid.UUID, date time.Time, _ bool) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	day := date.Format(timeslot.DateLayout)
	var out []model.Booking
	for _, b := range f.bookings {
		if b.ItemID == itemID && b.BookingDate.Format(timeslot.DateLayout) == day && slices.Contains(model.ActiveBookingStatuses, b.Status) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out, nil
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings)
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
	err     error
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, action string, offset, limit int) ([]model.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []model.AuditLog
	for _, e := range f.entries {
		if action == "" || e.Action == action {
			out = append(out, e)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	return out[offset:min(len(out), offset+limit)], total, nil
}

func (f *fakeAuditRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

var errStoreDown = errors.New("connection reset by peer")
