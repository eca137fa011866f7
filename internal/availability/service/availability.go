package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotwise/internal/capacity"
	resourcerepo "slotwise/internal/resources/repository"
	"slotwise/internal/staffing"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
	"slotwise/pkg/timeutil"
)

// ResourceStore is the slice of the resource repository the calculator reads.
type ResourceStore interface {
	FindByID(ctx context.Context, id string) (*model.Resource, error)
	FindBusinessHours(ctx context.Context, businessID string) ([]*model.BusinessHours, error)
}

// SlotCache is satisfied by the redis-backed cache. A nil cache disables
// caching without branching at every call site.
type SlotCache interface {
	Get(ctx context.Context, resourceID string, from, to time.Time) ([]model.AvailableSlot, bool)
	Set(ctx context.Context, resourceID string, from, to time.Time, slots []model.AvailableSlot)
}

type AvailabilityService interface {
	ComputeAvailableSlots(ctx context.Context, resourceID string, from, to time.Time, now time.Time) ([]model.AvailableSlot, error)
}

type availabilityService struct {
	resources ResourceStore
	guard     *capacity.Guard
	resolver  *staffing.Resolver
	cache     SlotCache
	cfg       *config.Config
}

func NewAvailabilityService(
	resources ResourceStore,
	guard *capacity.Guard,
	resolver *staffing.Resolver,
	cache SlotCache,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		resources: resources,
		guard:     guard,
		resolver:  resolver,
		cache:     cache,
		cfg:       cfg,
	}
}

// ComputeAvailableSlots enumerates bookable intervals for a resource over an
// inclusive date range. Candidates stride through each trading window in
// steps of the resource duration; each surviving candidate has passed the
// capacity and staffing checks against current data. Results are advisory:
// the create path re-validates under a transaction.
func (s *availabilityService) ComputeAvailableSlots(ctx context.Context, resourceID string, from, to time.Time, now time.Time) ([]model.AvailableSlot, error) {
	resource, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		return nil, mapResourceError(err, resourceID)
	}
	if !resource.Active {
		return nil, apperrors.ResourceInactive(resourceID)
	}

	loc := resource.Location()
	fromDay := dayStart(from, loc)
	toDay := dayStart(to, loc)

	if toDay.Before(fromDay) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Date range end %s precedes start %s",
			toDay.Format("2006-01-02"), fromDay.Format("2006-01-02"),
		))
	}
	days := daysBetween(fromDay, toDay) + 1
	if days > s.cfg.MaxAvailabilityDays {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Date range spans %d days, maximum is %d", days, s.cfg.MaxAvailabilityDays,
		))
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, resourceID, fromDay, toDay); ok {
			return dropElapsed(cached, now), nil
		}
	}

	windows, err := s.tradingWindows(ctx, resource)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(resource.DurationMinutes) * time.Minute
	slots := make([]model.AvailableSlot, 0)

	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		for _, w := range windows[day.Weekday()] {
			window, err := w.On(day)
			if err != nil {
				s.cfg.Log.Warn("Skipping malformed trading window",
					"resource_id", resourceID,
					"weekday", w.Weekday.String(),
					"error", err,
				)
				continue
			}

			for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(duration) {
				if start.Before(now) {
					continue
				}
				candidate := timeutil.Interval{Start: start, End: start.Add(duration)}

				committed, err := s.guard.Committed(ctx, resourceID, candidate)
				if err != nil {
					return nil, err
				}
				remaining := resource.Capacity - committed
				if remaining < 1 {
					continue
				}

				staffed, err := s.resolver.HasAvailableStaff(ctx, resource, candidate)
				if err != nil {
					return nil, err
				}
				if !staffed {
					continue
				}

				slots = append(slots, model.AvailableSlot{
					ResourceID: resourceID,
					Interval:   candidate,
					Remaining:  remaining,
				})
				if len(slots) >= s.cfg.MaxSlotsPerQuery {
					s.cfg.Log.Warn("Slot enumeration truncated",
						"resource_id", resourceID,
						"max_slots", s.cfg.MaxSlotsPerQuery,
					)
					return slots, nil
				}
			}
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, resourceID, fromDay, toDay, slots)
	}

	return slots, nil
}

// tradingWindows groups the business's configured windows by weekday. A
// business with no configured hours at all falls back to the default trading
// calendar from configuration.
func (s *availabilityService) tradingWindows(ctx context.Context, resource *model.Resource) (map[time.Weekday][]model.DayWindow, error) {
	hours, err := s.resources.FindBusinessHours(ctx, resource.BusinessID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load business hours", err)
	}

	windows := make(map[time.Weekday][]model.DayWindow)
	for _, h := range hours {
		windows[h.Window.Weekday] = append(windows[h.Window.Weekday], h.Window)
	}
	if len(windows) > 0 {
		return windows, nil
	}

	for _, day := range s.cfg.DefaultWorkingDays {
		windows[day] = append(windows[day], model.DayWindow{
			Weekday: day,
			Start:   s.cfg.DefaultStartOfDay,
			End:     s.cfg.DefaultEndOfDay,
		})
	}
	return windows, nil
}

// dayStart pins the calendar date carried by t to midnight in loc. Range
// bounds are date-only values: the named date is authoritative, not the
// instant it happens to decode to.
func dayStart(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days between two midnights in the same
// location. DST shifts make some days 23 or 25 hours long, hence the round.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours()/24 + 0.5)
}

// dropElapsed filters cached slots that started while the entry aged.
func dropElapsed(slots []model.AvailableSlot, now time.Time) []model.AvailableSlot {
	live := make([]model.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.Interval.Start.Before(now) {
			live = append(live, slot)
		}
	}
	return live
}

func mapResourceError(err error, resourceID string) error {
	switch {
	case errors.Is(err, resourcerepo.ErrNotFound):
		return apperrors.NotFoundWithID("Resource", resourceID)
	case errors.Is(err, resourcerepo.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid resource ID: %s", resourceID))
	default:
		return apperrors.Internal("Failed to load resource", err)
	}
}
