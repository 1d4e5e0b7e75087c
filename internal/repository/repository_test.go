package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"catalogbooking/internal/model"
	"catalogbooking/internal/pricing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type statement struct {
	SQL  string
	Vars []any
}

// recorder collects the statements gorm builds. The database runs in dry-run
// mode, so nothing is sent to a server.
type recorder struct {
	mu    sync.Mutex
	stmts []statement
}

func (r *recorder) capture(tx *gorm.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, statement{
		SQL:  tx.Statement.SQL.String(),
		Vars: append([]any(nil), tx.Statement.Vars...),
	})
}

func (r *recorder) all() []statement {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]statement(nil), r.stmts...)
}

func (r *recorder) first(t *testing.T) statement {
	t.Helper()
	stmts := r.all()
	require.NotEmpty(t, stmts, "no statement was built")
	return stmts[0]
}

func dryRunDB(t *testing.T) (*gorm.DB, *recorder) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:capture_query", rec.capture))
	require.NoError(t, db.Callback().Raw().After("gorm:raw").Register("test:capture_raw", rec.capture))
	return db, rec
}

var testDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func TestListCategoriesAppliesFilters(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewCatalogRepository(db)
	active := true

	_, _, err := repo.ListCategories(context.Background(), CategoryFilter{IsActive: &active, Search: "spa"}, 0, 10)
	require.NoError(t, err)

	count := rec.first(t)
	assert.Contains(t, count.SQL, `FROM "categories"`)
	assert.Contains(t, count.SQL, "is_active = $1")
	assert.Contains(t, count.SQL, "name ILIKE $2")
	assert.Equal(t, []any{true, "%spa%"}, count.Vars)
}

func TestListCategoriesWithoutFilters(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewCatalogRepository(db)

	_, _, err := repo.ListCategories(context.Background(), CategoryFilter{}, 0, 10)
	require.NoError(t, err)

	count := rec.first(t)
	assert.NotContains(t, count.SQL, "WHERE")
	assert.Empty(t, count.Vars)
}

func TestListItemsAppliesFilters(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewCatalogRepository(db)
	categoryID := uuid.New()
	inactive := false

	_, _, err := repo.ListItems(context.Background(), ItemFilter{
		CategoryID:  &categoryID,
		IsActive:    &inactive,
		PricingKind: pricing.KindTiered,
		Search:      "court",
	}, 20, 20)
	require.NoError(t, err)

	count := rec.first(t)
	assert.Contains(t, count.SQL, `FROM "items"`)
	assert.Contains(t, count.SQL, "category_id = $1")
	assert.Contains(t, count.SQL, "is_active = $2")
	assert.Contains(t, count.SQL, "pricing_kind = $3")
	assert.Contains(t, count.SQL, "name ILIKE $4")
	assert.NotContains(t, count.SQL, "subcategory_id")
	assert.Equal(t, []any{categoryID, false, pricing.KindTiered, "%court%"}, count.Vars)
}

func TestFindActiveAddonsScopesToItem(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewCatalogRepository(db)
	itemID, a1, a2 := uuid.New(), uuid.New(), uuid.New()

	_, err := repo.FindActiveAddons(context.Background(), itemID, []uuid.UUID{a1, a2})
	require.NoError(t, err)

	q := rec.first(t)
	assert.Contains(t, q.SQL, `FROM "addons"`)
	assert.Contains(t, q.SQL, "item_id = $1 AND id IN ($2,$3) AND is_active = $4")
	assert.Contains(t, q.SQL, "ORDER BY name asc")
	assert.Equal(t, []any{itemID, a1, a2, true}, q.Vars)
}

func TestFindActiveAddonsSkipsEmptySelection(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewCatalogRepository(db)

	addons, err := repo.FindActiveAddons(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Nil(t, addons)
	assert.Empty(t, rec.all())
}

func TestListActiveBookings(t *testing.T) {
	itemID := uuid.New()

	for _, forUpdate := range []bool{true, false} {
		db, rec := dryRunDB(t)
		repo := NewBookingRepository(db)

		_, err := repo.ListActive(context.Background(), itemID, testDate, forUpdate)
		require.NoError(t, err)

		q := rec.first(t)
		assert.Contains(t, q.SQL, `FROM "bookings"`)
		assert.Contains(t, q.SQL, "item_id = $1 AND booking_date = $2 AND status IN ($3,$4)")
		assert.Contains(t, q.SQL, "ORDER BY start_minute asc")
		assert.Equal(t, []any{itemID, "2026-03-02", model.BookingStatusPending, model.BookingStatusConfirmed}, q.Vars)
		if forUpdate {
			assert.Contains(t, q.SQL, "FOR UPDATE")
		} else {
			assert.NotContains(t, q.SQL, "FOR UPDATE")
		}
	}
}

func TestLockItemDay(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewBookingRepository(db)
	itemID := uuid.New()

	require.NoError(t, repo.LockItemDay(context.Background(), itemID, testDate))

	q := rec.first(t)
	assert.Equal(t, "SELECT pg_advisory_xact_lock(hashtext($1))", q.SQL)
	assert.Equal(t, []any{itemID.String() + "|2026-03-02"}, q.Vars)
}

func TestFindBookingForUpdateLocksRow(t *testing.T) {
	db, rec := dryRunDB(t)
	repo := NewBookingRepository(db)
	id := uuid.New()

	_, err := repo.FindByIDForUpdate(context.Background(), id)
	require.NoError(t, err)

	q := rec.first(t)
	assert.Contains(t, q.SQL, "WHERE id = $1")
	assert.Contains(t, q.SQL, "FOR UPDATE")
	require.NotEmpty(t, q.Vars)
	assert.Equal(t, id, q.Vars[0])
}

func TestGetDBPrefersContextTransaction(t *testing.T) {
	root, rootRec := dryRunDB(t)
	tx, txRec := dryRunDB(t)
	repo := NewBookingRepository(root)

	ctx := context.WithValue(context.Background(), txKey, tx)
	assert.True(t, InTx(ctx))
	assert.False(t, InTx(context.Background()))

	require.NoError(t, repo.LockItemDay(ctx, uuid.New(), testDate))
	assert.Empty(t, rootRec.all())
	assert.Len(t, txRec.all(), 1)
}

func TestItemDayKey(t *testing.T) {
	id := uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001")
	assert.Equal(t, "6f1c2d3e-0000-4000-8000-000000000001|2026-03-02", ItemDayKey(id, testDate))
}
