package service

import (
	"context"
	"testing"
	"time"

	"slotwise/internal/capacity"
	"slotwise/internal/staffing"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/timeutil"
)

type mockResourceStore struct {
	findByIDFunc          func(ctx context.Context, id string) (*model.Resource, error)
	findBusinessHoursFunc func(ctx context.Context, businessID string) ([]*model.BusinessHours, error)
}

func (m *mockResourceStore) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockResourceStore) FindBusinessHours(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
	return m.findBusinessHoursFunc(ctx, businessID)
}

type mockBookingFinder struct {
	findOverlappingFunc func(ctx context.Context, resourceID string, interval timeutil.Interval, statuses []model.BookingStatus) ([]*model.Booking, error)
}

func (m *mockBookingFinder) FindOverlapping(ctx context.Context, resourceID string, interval timeutil.Interval, statuses []model.BookingStatus) ([]*model.Booking, error) {
	return m.findOverlappingFunc(ctx, resourceID, interval, statuses)
}

type mockStaffStore struct {
	findCapableStaffFunc           func(ctx context.Context, resourceID string) ([]*model.StaffMember, error)
	findAvailabilityFunc           func(ctx context.Context, staffID string) ([]*model.StaffAvailability, error)
	findOverlappingAssignmentsFunc func(ctx context.Context, staffIDs []string, interval timeutil.Interval) ([]*model.StaffAssignment, error)
}

func (m *mockStaffStore) FindCapableStaff(ctx context.Context, resourceID string) ([]*model.StaffMember, error) {
	return m.findCapableStaffFunc(ctx, resourceID)
}

func (m *mockStaffStore) FindAvailability(ctx context.Context, staffID string) ([]*model.StaffAvailability, error) {
	return m.findAvailabilityFunc(ctx, staffID)
}

func (m *mockStaffStore) FindOverlappingAssignments(ctx context.Context, staffIDs []string, interval timeutil.Interval) ([]*model.StaffAssignment, error) {
	return m.findOverlappingAssignmentsFunc(ctx, staffIDs, interval)
}

func testConfig() *config.Config {
	days, _ := config.ParseWorkingDays(config.DefaultWorkingDays)
	return &config.Config{
		Log:                 logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
		MaxSlotsPerQuery:    config.DefaultMaxSlotsPerQuery,
		MaxAvailabilityDays: config.DefaultMaxAvailabilityDays,
		DefaultStartOfDay:   config.DefaultStartOfDay,
		DefaultEndOfDay:     config.DefaultEndOfDay,
		DefaultWorkingDays:  days,
	}
}

func noBookings(ctx context.Context, resourceID string, interval timeutil.Interval, statuses []model.BookingStatus) ([]*model.Booking, error) {
	return nil, nil
}

// newService wires a calculator with stub stores. Pass nil funcs to use
// empty defaults.
func newService(resources *mockResourceStore, bookings *mockBookingFinder, staff *mockStaffStore, cfg *config.Config) AvailabilityService {
	if bookings == nil {
		bookings = &mockBookingFinder{findOverlappingFunc: noBookings}
	}
	if staff == nil {
		staff = &mockStaffStore{
			findCapableStaffFunc: func(ctx context.Context, resourceID string) ([]*model.StaffMember, error) {
				return nil, nil
			},
		}
	}
	guard := capacity.NewGuard(bookings, cfg.Log)
	resolver := staffing.NewResolver(staff, cfg.Log)
	return NewAvailabilityService(resources, guard, resolver, nil, cfg)
}

func unstaffedResource() *model.Resource {
	return &model.Resource{
		ID:              "res-1",
		BusinessID:      "biz-1",
		Name:            "Court",
		DurationMinutes: 30,
		Capacity:        1,
		Active:          true,
		RequiresStaff:   false,
		TimeZone:        "UTC",
	}
}

func mondayWindow(start, end string) []*model.BusinessHours {
	return []*model.BusinessHours{
		{
			ID:         "bh-1",
			BusinessID: "biz-1",
			Window:     model.DayWindow{Weekday: time.Monday, Start: start, End: end},
		},
	}
}

func TestComputeAvailableSlotsStridesThroughWindow(t *testing.T) {
	// Monday 09:00-10:30 with 30-minute duration yields exactly three slots;
	// a fourth would run past the window end.
	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return unstaffedResource(), nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			return mondayWindow("09:00", "10:30"), nil
		},
	}
	svc := newService(resources, nil, nil, testConfig())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	slots, err := svc.ComputeAvailableSlots(context.Background(), "res-1", day, day, now)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots() error = %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("ComputeAvailableSlots() returned %d slots, want 3", len(slots))
	}

	wantStarts := []string{"09:00", "09:30", "10:00"}
	for i, slot := range slots {
		got := slot.Interval.Start.Format("15:04")
		if got != wantStarts[i] {
			t.Errorf("slot[%d].Start = %s, want %s", i, got, wantStarts[i])
		}
		if d := slot.Interval.Duration(); d != 30*time.Minute {
			t.Errorf("slot[%d] duration = %s, want 30m", i, d)
		}
		if slot.Remaining != 1 {
			t.Errorf("slot[%d].Remaining = %d, want 1", i, slot.Remaining)
		}
	}
}

func TestComputeAvailableSlotsSkipsElapsedCandidates(t *testing.T) {
	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return unstaffedResource(), nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			return mondayWindow("09:00", "11:00"), nil
		},
	}
	svc := newService(resources, nil, nil, testConfig())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	// Mid-window: 09:00 and 09:30 already started, 09:45 is mid-slot too.
	now := time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC)

	slots, err := svc.ComputeAvailableSlots(context.Background(), "res-1", day, day, now)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots() error = %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("ComputeAvailableSlots() returned %d slots, want 2", len(slots))
	}
	if got := slots[0].Interval.Start.Format("15:04"); got != "10:00" {
		t.Errorf("first slot starts %s, want 10:00", got)
	}
}

func TestComputeAvailableSlotsExcludesFullCandidates(t *testing.T) {
	// Capacity 1, one confirmed booking at 09:00-09:30: that slot disappears
	// and the rest of the window survives.
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	booked := timeutil.Interval{
		Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
	}

	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return unstaffedResource(), nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			return mondayWindow("09:00", "10:00"), nil
		},
	}
	bookings := &mockBookingFinder{
		findOverlappingFunc: func(ctx context.Context, resourceID string, interval timeutil.Interval, statuses []model.BookingStatus) ([]*model.Booking, error) {
			if interval.Overlaps(booked) {
				return []*model.Booking{
					{ID: "bk-1", ResourceID: resourceID, StartTime: booked.Start, EndTime: booked.End, Units: 1, Status: model.StatusConfirmed},
				}, nil
			}
			return nil, nil
		},
	}
	svc := newService(resources, bookings, nil, testConfig())

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slots, err := svc.ComputeAvailableSlots(context.Background(), "res-1", day, day, now)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots() error = %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("ComputeAvailableSlots() returned %d slots, want 1", len(slots))
	}
	if got := slots[0].Interval.Start.Format("15:04"); got != "09:30" {
		t.Errorf("surviving slot starts %s, want 09:30", got)
	}
}

func TestComputeAvailableSlotsExcludesUnstaffedCandidates(t *testing.T) {
	// Staffed resource with one staff member working Monday 09:00-10:00:
	// slots past 10:00 have no staff and are filtered out.
	resource := unstaffedResource()
	resource.RequiresStaff = true

	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return resource, nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			return mondayWindow("09:00", "11:00"), nil
		},
	}
	staff := &mockStaffStore{
		findCapableStaffFunc: func(ctx context.Context, resourceID string) ([]*model.StaffMember, error) {
			return []*model.StaffMember{{ID: "staff-a", Active: true}}, nil
		},
		findAvailabilityFunc: func(ctx context.Context, staffID string) ([]*model.StaffAvailability, error) {
			return []*model.StaffAvailability{
				{ID: "av-1", StaffID: staffID, Window: model.DayWindow{Weekday: time.Monday, Start: "09:00", End: "10:00"}},
			}, nil
		},
		findOverlappingAssignmentsFunc: func(ctx context.Context, staffIDs []string, interval timeutil.Interval) ([]*model.StaffAssignment, error) {
			return nil, nil
		},
	}
	svc := newService(resources, nil, staff, testConfig())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	slots, err := svc.ComputeAvailableSlots(context.Background(), "res-1", day, day, now)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots() error = %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("ComputeAvailableSlots() returned %d slots, want 2", len(slots))
	}
	if got := slots[len(slots)-1].Interval.Start.Format("15:04"); got != "09:30" {
		t.Errorf("last staffed slot starts %s, want 09:30", got)
	}
}

func TestComputeAvailableSlotsDefaultCalendarFallback(t *testing.T) {
	// No configured hours: the default trading calendar applies, so a Sunday
	// yields nothing and a Monday yields the full default day.
	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return unstaffedResource(), nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			return nil, nil
		},
	}
	svc := newService(resources, nil, nil, testConfig())

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	slots, err := svc.ComputeAvailableSlots(context.Background(), "res-1", sunday, sunday, now)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots() error = %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("Sunday yielded %d slots, want 0 under default calendar", len(slots))
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots, err = svc.ComputeAvailableSlots(context.Background(), "res-1", monday, monday, now)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots() error = %v", err)
	}
	// 09:00-18:00 in 30-minute strides.
	if len(slots) != 18 {
		t.Errorf("Monday yielded %d slots, want 18 under default calendar", len(slots))
	}
}

func TestComputeAvailableSlotsInactiveResource(t *testing.T) {
	resource := unstaffedResource()
	resource.Active = false

	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return resource, nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			t.Fatal("business hours should not be read for inactive resources")
			return nil, nil
		},
	}
	svc := newService(resources, nil, nil, testConfig())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := svc.ComputeAvailableSlots(context.Background(), "res-1", day, day, day)
	if err == nil {
		t.Fatal("ComputeAvailableSlots() error = nil, want RESOURCE_INACTIVE")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeResourceInactive {
		t.Errorf("ComputeAvailableSlots() code = %q, want %q", appErr.Code, apperrors.CodeResourceInactive)
	}
}

func TestComputeAvailableSlotsRangeValidation(t *testing.T) {
	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return unstaffedResource(), nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			return nil, nil
		},
	}
	cfg := testConfig()
	cfg.MaxAvailabilityDays = 7
	svc := newService(resources, nil, nil, cfg)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.ComputeAvailableSlots(context.Background(), "res-1", from, from.AddDate(0, 0, -1), now)
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("reversed range error = %v, want INVALID_INPUT", err)
	}

	_, err = svc.ComputeAvailableSlots(context.Background(), "res-1", from, from.AddDate(0, 0, 10), now)
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("oversized range error = %v, want INVALID_INPUT", err)
	}

	// Exactly at the limit is allowed.
	_, err = svc.ComputeAvailableSlots(context.Background(), "res-1", from, from.AddDate(0, 0, 6), now)
	if err != nil {
		t.Errorf("range at limit error = %v, want nil", err)
	}
}

func TestComputeAvailableSlotsHonorsResourceTimezone(t *testing.T) {
	// Business hours are wall-clock in the resource's timezone: a Monday
	// 09:00 slot in New York is 14:00 UTC in March (EST).
	resource := unstaffedResource()
	resource.TimeZone = "America/New_York"

	resources := &mockResourceStore{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return resource, nil
		},
		findBusinessHoursFunc: func(ctx context.Context, businessID string) ([]*model.BusinessHours, error) {
			return mondayWindow("09:00", "09:30"), nil
		},
	}
	svc := newService(resources, nil, nil, testConfig())

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	slots, err := svc.ComputeAvailableSlots(context.Background(), "res-1", day, day, now)
	if err != nil {
		t.Fatalf("ComputeAvailableSlots() error = %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("ComputeAvailableSlots() returned %d slots, want 1", len(slots))
	}
	if got := slots[0].Interval.Start.UTC().Format("15:04"); got != "14:00" {
		t.Errorf("slot start = %s UTC, want 14:00", got)
	}
}
