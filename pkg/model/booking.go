package model

import (
	"time"

	"slotwise/pkg/timeutil"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ActiveStatuses are the statuses that consume capacity and hold staff.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed}

// IsTerminal reports whether no further transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo enforces the monotonic lifecycle:
// pending -> confirmed -> completed, with cancellation allowed from any
// non-terminal state.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

type Booking struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	BusinessID   string        `json:"business_id" bson:"business_id" validate:"required"`
	ResourceID   string        `json:"resource_id" bson:"resource_id" validate:"required"`
	CustomerID   string        `json:"customer_id" bson:"customer_id" validate:"required"`
	StartTime    time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime      time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Units        int           `json:"units" bson:"units" validate:"required,min=1,max=200"`
	Status       BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	StaffID      string        `json:"staff_id,omitempty" bson:"staff_id,omitempty"`
	CancelReason string        `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty" validate:"omitempty,max=500"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Interval returns the booking's half-open occupancy range.
func (b *Booking) Interval() timeutil.Interval {
	return timeutil.Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive reports whether the booking currently consumes capacity.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
