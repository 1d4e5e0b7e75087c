package repository

import (
	"context"
	"time"

	"catalogbooking/internal/model"
	"catalogbooking/internal/timeslot"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	Update(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// LockItemDay takes a transaction scoped advisory lock on (itemID, date).
	// It must run inside RunInTx and is released on commit or rollback.
	LockItemDay(ctx context.Context, itemID uuid.UUID, date time.Time) error
	// ListActive returns pending and confirmed bookings of the item on date,
	// ordered by start. forUpdate row-locks the result.
	ListActive(ctx context.Context, itemID uuid.UUID, date time.Time, forUpdate bool) ([]model.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// ItemDayKey is the key that serialises admission for one item on one date.
func ItemDayKey(itemID uuid.UUID, date time.Time) string {
	return itemID.String() + "|" + date.Format(timeslot.DateLayout)
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Omit("Item").Create(booking).Error
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Omit("Item").Save(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) LockItemDay(ctx context.Context, itemID uuid.UUID, date time.Time) error {
	return GetDB(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", ItemDayKey(itemID, date)).Error
}

func (r *bookingRepository) ListActive(ctx context.Context, itemID uuid.UUID, date time.Time, forUpdate bool) ([]model.Booking, error) {
	var bookings []model.Booking
	db := GetDB(ctx, r.db)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := db.
		Where("item_id = ? AND booking_date = ? AND status IN ?", itemID, date.Format(timeslot.DateLayout), model.ActiveBookingStatuses).
		Order("start_minute asc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
