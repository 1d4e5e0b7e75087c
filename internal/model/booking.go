package model

import (
	"time"

	"catalogbooking/internal/timeslot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BookingStatus constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// ActiveBookingStatuses are the statuses that hold a time slot.
var ActiveBookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed}

// Booking reserves [StartMinute, EndMinute) of BookingDate on an item. The
// price columns are a snapshot taken at admission and never recomputed.
type Booking struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_booking_item_day,priority:1" json:"item_id"`
	Item          *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	BookingDate   time.Time       `gorm:"type:date;not null;index:idx_booking_item_day,priority:2" json:"booking_date"`
	StartMinute   int             `gorm:"type:smallint;not null;index:idx_booking_item_day,priority:3" json:"start_minute"`
	EndMinute     int             `gorm:"type:smallint;not null;check:chk_booking_range,end_minute > start_minute" json:"end_minute"`
	CustomerName  string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string          `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerPhone string          `gorm:"type:varchar(20)" json:"customer_phone"`
	Notes         string          `gorm:"type:text" json:"notes"`
	AddonIDs      datatypes.JSON  `gorm:"type:jsonb" json:"addon_ids"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	AddonsTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"addons_total"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax_amount"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"grand_total"`
	Status        string          `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (b *Booking) Range() timeslot.Range {
	return timeslot.Range{Start: timeslot.Clock(b.StartMinute), End: timeslot.Clock(b.EndMinute)}
}

// HoldsSlot reports whether the booking still blocks its time range.
func (b *Booking) HoldsSlot() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
