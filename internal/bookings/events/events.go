package events

import (
	"context"
	"time"

	"slotwise/pkg/kafka"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"

	source        = "slotwise-engine"
	schemaVersion = "1"
)

// BookingEvent is the payload shared by all lifecycle events. Consumers key
// on resource_id for partition affinity.
type BookingEvent struct {
	BookingID    string    `json:"booking_id"`
	BusinessID   string    `json:"business_id"`
	ResourceID   string    `json:"resource_id"`
	CustomerID   string    `json:"customer_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Units        int       `json:"units"`
	Status       string    `json:"status"`
	StaffID      string    `json:"staff_id,omitempty"`
	CancelReason string    `json:"cancel_reason,omitempty"`
}

// Publisher fans booking lifecycle changes out to Kafka. Publishing is
// best-effort: the booking is already committed, so failures are logged, not
// bubbled up to the caller.
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewPublisher(producer *kafka.Producer, log *logger.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		log:      log,
	}
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingConfirmed(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingConfirmed, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCancelled, booking)
}

func (p *Publisher) BookingCompleted(ctx context.Context, booking *model.Booking) {
	p.publish(ctx, EventBookingCompleted, booking)
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p == nil || p.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.ResourceID).
		WithEventType(eventType).
		WithSource(source).
		WithSchemaVersion(schemaVersion).
		WithValue(BookingEvent{
			BookingID:    booking.ID,
			BusinessID:   booking.BusinessID,
			ResourceID:   booking.ResourceID,
			CustomerID:   booking.CustomerID,
			StartTime:    booking.StartTime,
			EndTime:      booking.EndTime,
			Units:        booking.Units,
			Status:       string(booking.Status),
			StaffID:      booking.StaffID,
			CancelReason: booking.CancelReason,
		}).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
