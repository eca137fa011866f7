package model

import (
	"time"

	"slotwise/pkg/timeutil"
)

// DayWindow is a recurring weekly wall-clock window. Start and End are HH:MM
// values local to the owning business; the window carries no date.
type DayWindow struct {
	Weekday time.Weekday `json:"weekday" bson:"weekday" validate:"min=0,max=6"`
	Start   string       `json:"start" bson:"start" validate:"required,valid_clock"`
	End     string       `json:"end" bson:"end" validate:"required,valid_clock"`
}

// Minutes returns the window bounds as minutes since midnight.
func (w DayWindow) Minutes() (start, end int, err error) {
	start, err = timeutil.ClockMinutes(w.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = timeutil.ClockMinutes(w.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// On materializes the window on a concrete date in the date's location.
func (w DayWindow) On(date time.Time) (timeutil.Interval, error) {
	startMin, endMin, err := w.Minutes()
	if err != nil {
		return timeutil.Interval{}, err
	}
	return timeutil.NewInterval(timeutil.AtClock(date, startMin), timeutil.AtClock(date, endMin))
}

// BusinessHours is one trading window of a business on a given weekday. A
// business may carry zero, one, or many windows per weekday.
type BusinessHours struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	BusinessID string    `json:"business_id" bson:"business_id" validate:"required"`
	Window     DayWindow `json:"window" bson:"window" validate:"required"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// StaffAvailability is one recurring working window of a staff member.
// Windows for the same staff member and weekday are assumed non-overlapping;
// that is enforced when windows are created, not re-checked on read.
type StaffAvailability struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	StaffID   string    `json:"staff_id" bson:"staff_id" validate:"required"`
	Window    DayWindow `json:"window" bson:"window" validate:"required"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
