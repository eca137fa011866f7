package capacity

import (
	"context"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/timeutil"
)

// BookingFinder yields the bookings that overlap a candidate interval on a
// resource, filtered to the given statuses.
type BookingFinder interface {
	FindOverlapping(ctx context.Context, resourceID string, interval timeutil.Interval, statuses []model.BookingStatus) ([]*model.Booking, error)
}

// Guard enforces the capacity invariant: at any instant, the sum of units
// over active bookings on a resource must not exceed the resource's capacity.
type Guard struct {
	bookings BookingFinder
	log      *logger.Logger
}

func NewGuard(bookings BookingFinder, log *logger.Logger) *Guard {
	return &Guard{
		bookings: bookings,
		log:      log,
	}
}

// Committed returns the units already consumed by active bookings that
// overlap the interval.
//
// Overlapping bookings within the interval can stack differently at
// different instants; summing all of them is the conservative reading and
// matches slot-sized intervals, where every overlapping booking coexists at
// some instant with any other.
func (g *Guard) Committed(ctx context.Context, resourceID string, interval timeutil.Interval) (int, error) {
	overlapping, err := g.bookings.FindOverlapping(ctx, resourceID, interval, model.ActiveStatuses)
	if err != nil {
		return 0, apperrors.Internal("Failed to load overlapping bookings", err)
	}

	committed := 0
	for _, b := range overlapping {
		committed += b.Units
	}
	return committed, nil
}

// Check accepts iff committed + requested units fit within the resource's
// capacity. On rejection the returned error carries the remaining capacity
// for user-facing messaging.
func (g *Guard) Check(ctx context.Context, resource *model.Resource, interval timeutil.Interval, requestedUnits int) (remaining int, err error) {
	committed, err := g.Committed(ctx, resource.ID, interval)
	if err != nil {
		return 0, err
	}

	available := resource.Capacity - committed
	if available < 0 {
		available = 0
	}

	if requestedUnits > available {
		g.log.Debug("Capacity check rejected",
			"resource_id", resource.ID,
			"interval", interval.String(),
			"committed", committed,
			"requested", requestedUnits,
			"capacity", resource.Capacity,
		)
		return available, apperrors.CapacityExceeded(available)
	}

	return available - requestedUnits, nil
}
