package staffing

import (
	"context"
	"sort"
	"time"

	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/logger"
	"slotwise/pkg/model"
	"slotwise/pkg/timeutil"
)

// StaffStore provides the reads the resolver needs. Assignments carry the
// booking interval, so conflict checks never touch the bookings collection.
type StaffStore interface {
	FindCapableStaff(ctx context.Context, resourceID string) ([]*model.StaffMember, error)
	FindAvailability(ctx context.Context, staffID string) ([]*model.StaffAvailability, error)
	FindOverlappingAssignments(ctx context.Context, staffIDs []string, interval timeutil.Interval) ([]*model.StaffAssignment, error)
}

// Resolver finds a staff member who is capable of servicing a resource,
// scheduled to work during the candidate interval, and not already committed
// elsewhere.
type Resolver struct {
	store StaffStore
	log   *logger.Logger
}

func NewResolver(store StaffStore, log *logger.Logger) *Resolver {
	return &Resolver{
		store: store,
		log:   log,
	}
}

// Resolve picks a staff member for the interval. Resources that do not
// require staffing resolve to the empty ID without any store reads. The
// tie-break among eligible staff is ascending staff ID: a stable, documented
// order, not a load-balancing policy.
func (r *Resolver) Resolve(ctx context.Context, resource *model.Resource, interval timeutil.Interval) (string, error) {
	if !resource.RequiresStaff {
		return "", nil
	}

	eligible, err := r.eligibleStaff(ctx, resource, interval)
	if err != nil {
		return "", err
	}
	if len(eligible) == 0 {
		return "", apperrors.NoStaffAvailable(resource.ID)
	}
	return eligible[0], nil
}

// HasAvailableStaff reports whether at least one staff member could take the
// interval. Used by slot enumeration, where no selection is committed.
func (r *Resolver) HasAvailableStaff(ctx context.Context, resource *model.Resource, interval timeutil.Interval) (bool, error) {
	if !resource.RequiresStaff {
		return true, nil
	}

	eligible, err := r.eligibleStaff(ctx, resource, interval)
	if err != nil {
		return false, err
	}
	return len(eligible) > 0, nil
}

func (r *Resolver) eligibleStaff(ctx context.Context, resource *model.Resource, interval timeutil.Interval) ([]string, error) {
	capable, err := r.store.FindCapableStaff(ctx, resource.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load capable staff", err)
	}

	loc := resource.Location()
	var scheduled []string
	for _, staff := range capable {
		if !staff.Active {
			continue
		}
		ok, err := r.isScheduled(ctx, staff.ID, interval, loc)
		if err != nil {
			return nil, err
		}
		if ok {
			scheduled = append(scheduled, staff.ID)
		}
	}
	if len(scheduled) == 0 {
		return nil, nil
	}

	conflicts, err := r.store.FindOverlappingAssignments(ctx, scheduled, interval)
	if err != nil {
		return nil, apperrors.Internal("Failed to load staff assignments", err)
	}
	busy := make(map[string]bool, len(conflicts))
	for _, a := range conflicts {
		busy[a.StaffID] = true
	}

	var eligible []string
	for _, id := range scheduled {
		if !busy[id] {
			eligible = append(eligible, id)
		}
	}
	sort.Strings(eligible)
	return eligible, nil
}

// isScheduled reports whether some availability window on the interval's
// weekday fully contains its time-of-day range, evaluated in business time.
func (r *Resolver) isScheduled(ctx context.Context, staffID string, interval timeutil.Interval, loc *time.Location) (bool, error) {
	windows, err := r.store.FindAvailability(ctx, staffID)
	if err != nil {
		return false, apperrors.Internal("Failed to load staff availability", err)
	}

	localStart := interval.Start.In(loc)
	localEnd := interval.End.In(loc)

	startMin := timeutil.MinutesOfDay(localStart)
	endMin := timeutil.MinutesOfDay(localEnd)
	if endMin == 0 && localEnd.After(localStart) {
		endMin = 24 * 60
	}
	if endMin <= startMin {
		// Interval crosses midnight; weekly windows never do.
		return false, nil
	}

	for _, w := range windows {
		if w.Window.Weekday != localStart.Weekday() {
			continue
		}
		winStart, winEnd, err := w.Window.Minutes()
		if err != nil {
			r.log.Warn("Skipping malformed staff availability window",
				"staff_id", staffID,
				"window_id", w.ID,
				"error", err,
			)
			continue
		}
		if startMin >= winStart && endMin <= winEnd {
			return true, nil
		}
	}
	return false, nil
}
