package model

import (
	"time"

	"slotwise/pkg/timeutil"
)

// AvailableSlot is a candidate bookable interval, exactly one resource
// duration long, that survived the capacity and staffing filters.
type AvailableSlot struct {
	ResourceID string            `json:"resource_id"`
	Interval   timeutil.Interval `json:"interval"`
	Remaining  int               `json:"remaining"`
}

// SlotLock is an advisory lock that serializes booking creation for one
// resource or staff member. The unique _id makes concurrent acquisition
// a duplicate-key error; ExpiresAt bounds locks orphaned by crashed requests.
type SlotLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
