package model

import "time"

// Resource is a bookable item or service: every booking against it runs for
// exactly DurationMinutes and consumes Units of its Capacity.
type Resource struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	BusinessID      string    `json:"business_id" bson:"business_id" validate:"required"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=5,max=480"`
	Duration        string    `json:"duration,omitempty" bson:"-"` // request-only, e.g. "30 minutes"
	Capacity        int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=200"`
	Active          bool      `json:"active" bson:"active"`
	RequiresStaff   bool      `json:"requires_staff" bson:"requires_staff"`
	TimeZone        string    `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Location resolves the resource's authoritative timezone. Intervals are
// always interpreted in business time, never the caller's local time.
func (r *Resource) Location() *time.Location {
	if r.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
