package service

import (
	"context"
	"encoding/json"
	"time"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/availability"
	"catalogbooking/internal/events"
	"catalogbooking/internal/lock"
	"catalogbooking/internal/model"
	"catalogbooking/internal/pricing"
	"catalogbooking/internal/repository"
	"catalogbooking/internal/timeslot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const publishTimeout = 2 * time.Second

// DTOs
type CreateBookingRequest struct {
	ItemID        string   `json:"item_id" binding:"required,uuid"`
	BookingDate   string   `json:"booking_date" binding:"required,datetime=2006-01-02" example:"2026-03-02"`
	StartTime     string   `json:"start_time" binding:"required,clock" example:"10:00"`
	EndTime       string   `json:"end_time" binding:"required,clock" example:"11:00"`
	CustomerName  string   `json:"customer_name" binding:"required,max=255"`
	CustomerEmail string   `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerPhone string   `json:"customer_phone" binding:"omitempty,max=20"`
	Addons        []string `json:"addons" binding:"omitempty,dive,uuid"`
	Notes         string   `json:"notes"`
}

type BookingResponse struct {
	ID            string   `json:"id"`
	ItemID        string   `json:"item_id"`
	BookingDate   string   `json:"booking_date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email,omitempty"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	AddonIDs      []string `json:"addon_ids"`
	BasePrice     string   `json:"base_price"`
	AddonsTotal   string   `json:"addons_total"`
	TaxAmount     string   `json:"tax_amount"`
	GrandTotal    string   `json:"grand_total"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type BookedSlotResponse struct {
	BookingID string `json:"booking_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}

type AvailableSlotsResponse struct {
	ItemID    string               `json:"item_id"`
	Date      string               `json:"date"`
	Day       string               `json:"day"`
	Available bool                 `json:"available"`
	Message   string               `json:"message,omitempty"`
	Windows   []SlotResponse       `json:"windows"`
	Booked    []BookedSlotResponse `json:"booked"`
}

type BookingService interface {
	GetAvailableSlots(ctx context.Context, itemID, date string) (AvailableSlotsResponse, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (BookingResponse, error)
	CancelBooking(ctx context.Context, id string) (BookingResponse, error)
	GetBooking(ctx context.Context, id string) (BookingResponse, error)
}

type bookingService struct {
	catalogRepo repository.CatalogRepository
	bookingRepo repository.BookingRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	pricing     PricingService
	locks       *lock.KeyedMutex
	publisher   events.Publisher
}

func NewBookingService(
	catalogRepo repository.CatalogRepository,
	bookingRepo repository.BookingRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	pricingService PricingService,
	locks *lock.KeyedMutex,
	publisher events.Publisher,
) BookingService {
	if locks == nil {
		locks = lock.NewKeyedMutex()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &bookingService{
		catalogRepo: catalogRepo,
		bookingRepo: bookingRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		pricing:     pricingService,
		locks:       locks,
		publisher:   publisher,
	}
}

func (s *bookingService) GetAvailableSlots(ctx context.Context, itemID, date string) (AvailableSlotsResponse, error) {
	id, err := parseID(itemID, "item")
	if err != nil {
		return AvailableSlotsResponse{}, err
	}
	day, err := timeslot.ParseDate(date)
	if err != nil {
		return AvailableSlotsResponse{}, apperror.Wrap(apperror.KindInvalidInput, err, "invalid date")
	}

	item, err := s.catalogRepo.FindItemByID(ctx, id)
	if err != nil {
		return AvailableSlotsResponse{}, storeError(err, apperror.KindItemNotFound, "item")
	}
	if !item.IsBookable {
		return AvailableSlotsResponse{}, apperror.New(apperror.KindNotBookable, "item is not bookable")
	}
	cfg, err := item.Availability()
	if err != nil {
		return AvailableSlotsResponse{}, err
	}

	slots := availability.For(cfg, day)
	res := AvailableSlotsResponse{
		ItemID:    item.ID.String(),
		Date:      day.Format(timeslot.DateLayout),
		Day:       slots.Day,
		Available: slots.Available,
		Message:   slots.Reason,
		Windows:   make([]SlotResponse, 0, len(slots.Windows)),
		Booked:    []BookedSlotResponse{},
	}
	if !slots.Available {
		return res, nil
	}
	for _, w := range slots.Windows {
		res.Windows = append(res.Windows, SlotResponse{Start: w.Start.String(), End: w.End.String()})
	}

	booked, err := s.bookingRepo.ListActive(ctx, item.ID, day, false)
	if err != nil {
		return AvailableSlotsResponse{}, apperror.Transient(err, "failed to load bookings")
	}
	for _, b := range booked {
		res.Booked = append(res.Booked, BookedSlotResponse{
			BookingID: b.ID.String(),
			StartTime: b.Range().Start.String(),
			EndTime:   b.Range().End.String(),
			Status:    b.Status,
		})
	}
	return res, nil
}

type bookingInput struct {
	itemID   uuid.UUID
	date     time.Time
	slot     timeslot.Range
	addonIDs []uuid.UUID
}

func parseBookingRequest(req CreateBookingRequest) (bookingInput, error) {
	var in bookingInput
	var err error
	if in.itemID, err = parseID(req.ItemID, "item"); err != nil {
		return in, err
	}
	if in.date, err = timeslot.ParseDate(req.BookingDate); err != nil {
		return in, apperror.Wrap(apperror.KindInvalidInput, err, "invalid booking_date")
	}
	if in.slot.Start, err = timeslot.ParseClock(req.StartTime); err != nil {
		return in, apperror.Wrap(apperror.KindInvalidInput, err, "invalid start_time")
	}
	if in.slot.End, err = timeslot.ParseClock(req.EndTime); err != nil {
		return in, apperror.Wrap(apperror.KindInvalidInput, err, "invalid end_time")
	}
	if !in.slot.Valid() {
		return in, apperror.New(apperror.KindInvalidInput, "end_time must be after start_time")
	}
	if req.CustomerName == "" {
		return in, apperror.New(apperror.KindInvalidInput, "customer_name is required")
	}
	if in.addonIDs, err = parseIDs(req.Addons, "addon"); err != nil {
		return in, err
	}
	return in, nil
}

// CreateBooking admits a booking if its range overlaps no pending or
// confirmed booking of the same item and date. The check and the insert run
// in one transaction under the (item, date) lock.
func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (BookingResponse, error) {
	in, err := parseBookingRequest(req)
	if err != nil {
		return BookingResponse{}, err
	}

	unlock := s.locks.Lock(repository.ItemDayKey(in.itemID, in.date))
	defer unlock()

	var booking *model.Booking
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.catalogRepo.FindItemWithAncestors(txCtx, in.itemID)
		if err != nil {
			return storeError(err, apperror.KindItemNotFound, "item")
		}
		if !item.IsActive {
			return apperror.New(apperror.KindItemInactive, "item is not active")
		}
		if !item.IsBookable {
			return apperror.New(apperror.KindNotBookable, "item is not bookable")
		}
		cfg, err := item.Availability()
		if err != nil {
			return err
		}
		if err := availability.Validate(cfg, in.date, in.slot); err != nil {
			return err
		}

		hours := decimal.NewFromInt(int64(in.slot.Minutes())).Div(decimal.NewFromInt(60))
		start := in.slot.Start
		price, err := s.pricing.Breakdown(txCtx, item, pricing.Params{
			Duration: &hours,
			Time:     &start,
			AddonIDs: in.addonIDs,
		})
		if err != nil {
			return err
		}

		if err := s.bookingRepo.LockItemDay(txCtx, in.itemID, in.date); err != nil {
			return apperror.Transient(err, "failed to lock booking day")
		}
		existing, err := s.bookingRepo.ListActive(txCtx, in.itemID, in.date, true)
		if err != nil {
			return apperror.Transient(err, "failed to load bookings")
		}
		for _, b := range existing {
			if b.HoldsSlot() && b.Range().Overlaps(in.slot) {
				return apperror.Newf(apperror.KindSlotConflict, "time slot conflicts with an existing booking (%s)", b.Range())
			}
		}

		addonIDs := make([]string, 0, len(price.Addons))
		for _, a := range price.Addons {
			addonIDs = append(addonIDs, a.ID.String())
		}
		rawAddons, err := json.Marshal(addonIDs)
		if err != nil {
			return apperror.Wrap(apperror.KindInternal, err, "failed to encode addon ids")
		}

		booking = &model.Booking{
			ItemID:        in.itemID,
			BookingDate:   in.date,
			StartMinute:   int(in.slot.Start),
			EndMinute:     int(in.slot.End),
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			CustomerPhone: req.CustomerPhone,
			Notes:         req.Notes,
			AddonIDs:      datatypes.JSON(rawAddons),
			BasePrice:     price.BasePrice,
			AddonsTotal:   price.AddonsTotal,
			TaxAmount:     price.Tax.Amount,
			GrandTotal:    price.GrandTotal,
			Status:        model.BookingStatusConfirmed,
		}
		if err := s.bookingRepo.Create(txCtx, booking); err != nil {
			return apperror.Transient(err, "failed to create booking")
		}

		return writeAudit(txCtx, s.auditRepo, model.ActionCreateBooking, booking.ID.String(), item.Name, map[string]any{
			"booking_date": req.BookingDate,
			"start_time":   in.slot.Start.String(),
			"end_time":     in.slot.End.String(),
			"grand_total":  money(booking.GrandTotal),
		})
	})
	if err != nil {
		return BookingResponse{}, apperror.Transient(err, "failed to create booking")
	}

	s.publish(ctx, events.RKBookingCreated, booking)
	return toBookingResponse(booking), nil
}

func (s *bookingService) CancelBooking(ctx context.Context, id string) (BookingResponse, error) {
	bookingID, err := parseID(id, "booking")
	if err != nil {
		return BookingResponse{}, err
	}

	var booking *model.Booking
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.FindByIDForUpdate(txCtx, bookingID)
		if err != nil {
			return storeError(err, apperror.KindBookingNotFound, "booking")
		}
		if !b.HoldsSlot() {
			if b.Status == model.BookingStatusCancelled {
				return apperror.New(apperror.KindAlreadyCancelled, "booking already cancelled")
			}
			return apperror.Newf(apperror.KindInvalidTransition, "%s booking cannot be cancelled", b.Status)
		}

		b.Status = model.BookingStatusCancelled
		if err := s.bookingRepo.Update(txCtx, b); err != nil {
			return apperror.Transient(err, "failed to cancel booking")
		}
		booking = b

		return writeAudit(txCtx, s.auditRepo, model.ActionCancelBooking, b.ID.String(), b.CustomerName, map[string]any{
			"item_id":      b.ItemID.String(),
			"booking_date": b.BookingDate.Format(timeslot.DateLayout),
			"start_time":   b.Range().Start.String(),
			"end_time":     b.Range().End.String(),
		})
	})
	if err != nil {
		return BookingResponse{}, apperror.Transient(err, "failed to cancel booking")
	}

	s.publish(ctx, events.RKBookingCancelled, booking)
	return toBookingResponse(booking), nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (BookingResponse, error) {
	bookingID, err := parseID(id, "booking")
	if err != nil {
		return BookingResponse{}, err
	}
	b, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return BookingResponse{}, storeError(err, apperror.KindBookingNotFound, "booking")
	}
	return toBookingResponse(b), nil
}

// publish runs after commit. Failures never change the booking outcome.
func (s *bookingService) publish(ctx context.Context, eventType string, b *model.Booking) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	_ = s.publisher.Publish(pubCtx, events.BookingEvent{
		Type:       eventType,
		BookingID:  b.ID.String(),
		ItemID:     b.ItemID.String(),
		Date:       b.BookingDate.Format(timeslot.DateLayout),
		StartTime:  b.Range().Start.String(),
		EndTime:    b.Range().End.String(),
		Status:     b.Status,
		GrandTotal: money(b.GrandTotal),
		OccurredAt: time.Now().UTC(),
	})
}

func toBookingResponse(b *model.Booking) BookingResponse {
	var addonIDs []string
	if len(b.AddonIDs) > 0 {
		_ = json.Unmarshal(b.AddonIDs, &addonIDs)
	}
	if addonIDs == nil {
		addonIDs = []string{}
	}
	return BookingResponse{
		ID:            b.ID.String(),
		ItemID:        b.ItemID.String(),
		BookingDate:   b.BookingDate.Format(timeslot.DateLayout),
		StartTime:     b.Range().Start.String(),
		EndTime:       b.Range().End.String(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
		AddonIDs:      addonIDs,
		BasePrice:     money(b.BasePrice),
		AddonsTotal:   money(b.AddonsTotal),
		TaxAmount:     money(b.TaxAmount),
		GrandTotal:    money(b.GrandTotal),
		Status:        b.Status,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}
