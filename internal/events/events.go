// Package events carries booking lifecycle notifications to the websocket
// feed and the message broker.
package events

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Routing keys
const (
	RKBookingCreated   = "booking.created"
	RKBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after the transaction that produced it commits.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	ItemID     string    `json:"item_id"`
	Date       string    `json:"booking_date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Status     string    `json:"status"`
	GrandTotal string    `json:"grand_total"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

// Fanout delivers an event to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev BookingEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }

type loggingPublisher struct {
	next Publisher
	log  *zap.Logger
}

// LogErrors wraps p so delivery failures are logged and never returned.
func LogErrors(log *zap.Logger, p Publisher) Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &loggingPublisher{next: p, log: log}
}

func (l *loggingPublisher) Publish(ctx context.Context, ev BookingEvent) error {
	if err := l.next.Publish(ctx, ev); err != nil {
		l.log.Warn("booking event delivery failed",
			zap.String("type", ev.Type),
			zap.String("booking_id", ev.BookingID),
			zap.Error(err),
		)
	}
	return nil
}
