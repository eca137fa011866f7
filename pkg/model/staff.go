package model

import "time"

// StaffMember can service the resources listed in ResourceIDs (the
// capability relation). Inactive staff never participate in assignment.
type StaffMember struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	BusinessID  string    `json:"business_id" bson:"business_id" validate:"required"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Active      bool      `json:"active" bson:"active"`
	ResourceIDs []string  `json:"resource_ids" bson:"resource_ids" validate:"omitempty,dive,required"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// StaffAssignment links exactly one booking to exactly one staff member. The
// booking interval is denormalized onto the assignment so staff conflict
// queries never join the bookings collection.
type StaffAssignment struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	BookingID  string    `json:"booking_id" bson:"booking_id" validate:"required"`
	StaffID    string    `json:"staff_id" bson:"staff_id" validate:"required"`
	ResourceID string    `json:"resource_id" bson:"resource_id" validate:"required"`
	StartTime  time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
