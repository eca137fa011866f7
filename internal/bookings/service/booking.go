package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "slotwise/internal/bookings/errors"
	"slotwise/internal/bookings/repository"
	"slotwise/internal/bookings/validator"
	"slotwise/internal/capacity"
	resourcerepo "slotwise/internal/resources/repository"
	"slotwise/internal/staffing"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
	"slotwise/pkg/sanitizer"
)

// ResourceFinder is the slice of the resource repository the booking flow
// needs.
type ResourceFinder interface {
	FindByID(ctx context.Context, id string) (*model.Resource, error)
}

// EventSink receives lifecycle notifications after a state change commits.
// Implementations must not fail the calling request.
type EventSink interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingConfirmed(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
	BookingCompleted(ctx context.Context, booking *model.Booking)
}

// CacheInvalidator drops cached slot lists after a committed state change.
type CacheInvalidator interface {
	InvalidateResource(ctx context.Context, resourceID string)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking, now time.Time) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string, reason string, now time.Time) error
	Confirm(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	Search(ctx context.Context, businessID string, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.SlotLockRepository
	staffRepo staffing.StaffRepository
	resources ResourceFinder
	guard     *capacity.Guard
	resolver  *staffing.Resolver
	validator *validator.BookingValidator
	events    EventSink
	cache     CacheInvalidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.SlotLockRepository,
	staffRepo staffing.StaffRepository,
	resources ResourceFinder,
	guard *capacity.Guard,
	resolver *staffing.Resolver,
	validator *validator.BookingValidator,
	events EventSink,
	cache CacheInvalidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		staffRepo: staffRepo,
		resources: resources,
		guard:     guard,
		resolver:  resolver,
		validator: validator,
		events:    events,
		cache:     cache,
		cfg:       cfg,
	}
}

// Create accepts or rejects a booking request. Transactions give a
// consistent snapshot but no predicate locks, so two overlapping requests
// could each read the pre-state and both commit. Advisory locks close that
// gap: the resource lock serializes every create on the resource regardless
// of how the intervals overlap, and the staff lock serializes assignment of
// the resolved staff member across resources. Staff resolution happens
// before the transaction so the staff lock can be taken up front; the
// assignment re-check inside the transaction catches a resolution that went
// stale before its lock was held.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking, now time.Time) error {
	resource, err := s.loadResource(ctx, booking.ResourceID)
	if err != nil {
		return err
	}
	if !resource.Active {
		return apperrors.ResourceInactive(resource.ID)
	}
	if booking.BusinessID != "" && booking.BusinessID != resource.BusinessID {
		return apperrors.InvalidInput("Booking business ID does not match the resource's business")
	}

	s.applyDefaults(booking, resource)
	if err := s.validate(booking, now); err != nil {
		return err
	}

	resourceLock, err := s.acquireLock(ctx, resourceLockKey(booking.ResourceID))
	if err != nil {
		return err
	}
	defer s.releaseLock(ctx, resourceLock)

	staffID, err := s.resolver.Resolve(ctx, resource, booking.Interval())
	if err != nil {
		return err
	}
	if staffID != "" {
		staffLock, err := s.acquireLock(ctx, staffLockKey(staffID))
		if err != nil {
			return err
		}
		defer s.releaseLock(ctx, staffLock)
	}
	booking.StaffID = staffID

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.guard.Check(txCtx, resource, booking.Interval(), booking.Units); err != nil {
			return err
		}

		if staffID != "" {
			conflicts, err := s.staffRepo.FindOverlappingAssignments(txCtx, []string{staffID}, booking.Interval())
			if err != nil {
				return apperrors.Internal("Failed to check staff assignments", err)
			}
			if len(conflicts) > 0 {
				return apperrors.PersistenceConflict("Selected staff member was booked concurrently. Please retry.")
			}
		}

		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		if staffID != "" {
			assignment := &model.StaffAssignment{
				BookingID:  booking.ID,
				StaffID:    staffID,
				ResourceID: booking.ResourceID,
				StartTime:  booking.StartTime,
				EndTime:    booking.EndTime,
			}
			if err := s.staffRepo.CreateAssignment(txCtx, assignment); err != nil {
				return apperrors.Internal("Failed to create staff assignment", err)
			}
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"resource_id", booking.ResourceID,
			"start_time", booking.StartTime,
			"error", err,
		)
		return err
	}

	s.afterCommit(ctx, booking, func(sink EventSink) { sink.BookingCreated(ctx, booking) })

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"business_id", booking.BusinessID,
		"resource_id", booking.ResourceID,
		"start_time", booking.StartTime,
		"units", booking.Units,
		"staff_id", booking.StaffID,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapBookingError(err, id)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Cancel rejects terminal bookings and bookings inside the cancellation
// window. The boundary is inclusive: a booking starting exactly cutoff from
// now may still be cancelled.
func (s *bookingService) Cancel(ctx context.Context, id string, reason string, now time.Time) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapBookingError(err, id)
	}

	switch booking.Status {
	case model.StatusCancelled:
		return apperrors.AlreadyCancelled(id)
	case model.StatusCompleted:
		return apperrors.BookingCompleted(id)
	}

	cutoff := s.cfg.CancellationCutoff
	if booking.StartTime.Sub(now) < cutoff {
		return apperrors.CancellationWindowViolation(cutoff)
	}

	reason = sanitizer.SanitizeFreeText(reason)

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateStatus(txCtx, id, model.StatusCancelled, reason); err != nil {
			return mapBookingError(err, id)
		}
		if _, err := s.staffRepo.DeleteAssignmentsByBooking(txCtx, id); err != nil {
			return apperrors.Internal("Failed to release staff assignment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return err
	}

	booking.Status = model.StatusCancelled
	booking.CancelReason = reason
	s.afterCommit(ctx, booking, func(sink EventSink) { sink.BookingCancelled(ctx, booking) })

	s.cfg.Log.Info("Booking cancelled", "id", id, "resource_id", booking.ResourceID)
	return nil
}

func (s *bookingService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusConfirmed)
}

func (s *bookingService) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusCompleted)
}

// transition applies a status change guarded by the monotonic lifecycle.
// No temporal re-validation happens here. Completing a booking also frees
// its staff member for the interval.
func (s *bookingService) transition(ctx context.Context, id string, next model.BookingStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapBookingError(err, id)
	}

	if !booking.Status.CanTransitionTo(next) {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot transition booking from %s to %s", booking.Status, next,
		))
	}

	if next == model.StatusCompleted {
		// Completed bookings no longer hold their staff member.
		err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			if err := s.repo.UpdateStatus(txCtx, id, next, ""); err != nil {
				return mapBookingError(err, id)
			}
			if _, err := s.staffRepo.DeleteAssignmentsByBooking(txCtx, id); err != nil {
				return apperrors.Internal("Failed to release staff assignment", err)
			}
			return nil
		})
	} else {
		err = s.repo.UpdateStatus(ctx, id, next, "")
		if err != nil {
			err = mapBookingError(err, id)
		}
	}
	if err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "status", next, "error", err)
		return err
	}

	booking.Status = next
	s.afterCommit(ctx, booking, func(sink EventSink) {
		switch next {
		case model.StatusConfirmed:
			sink.BookingConfirmed(ctx, booking)
		case model.StatusCompleted:
			sink.BookingCompleted(ctx, booking)
		}
	})

	s.cfg.Log.Info("Booking status updated", "id", id, "status", next)
	return nil
}

func (s *bookingService) Search(ctx context.Context, businessID string, resourceID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if businessID == "" || resourceID == "" {
		return nil, 0, apperrors.InvalidInput("BusinessID and ResourceID are required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByBusinessAndResource(ctx, businessID, resourceID, startTime, endTime)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings by search",
				"business_id", businessID,
				"resource_id", resourceID,
				"error", err,
			)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByBusinessAndResource(ctx, businessID, resourceID, startTime, endTime, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to search bookings",
				"business_id", businessID,
				"resource_id", resourceID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to search bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking, resource *model.Resource) {
	if b.Status == "" {
		b.Status = model.StatusPending
	}
	if b.Units <= 0 {
		b.Units = 1
	}
	if b.EndTime.IsZero() && !b.StartTime.IsZero() {
		b.EndTime = b.StartTime.Add(time.Duration(resource.DurationMinutes) * time.Minute)
	}
	if b.BusinessID == "" {
		b.BusinessID = resource.BusinessID
	}
}

func (s *bookingService) validate(booking *model.Booking, now time.Time) error {
	if err := s.validator.Validate(booking, now); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	return nil
}

func (s *bookingService) loadResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	if resourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	resource, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourcerepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", resourceID)
		}
		if errors.Is(err, resourcerepo.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid resource ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve resource", err)
	}
	return resource, nil
}

// Locks key on the whole resource rather than a start time: overlapping
// intervals need not share a start instant, so anything narrower would let
// two offset requests race past the capacity check.
func resourceLockKey(resourceID string) string {
	return "resource_lock_" + resourceID
}

func staffLockKey(staffID string) string {
	return "staff_lock_" + staffID
}

// acquireLock takes an advisory lock. A held lock means another request is
// mid-commit for the same resource or staff member; callers should retry
// after backoff.
func (s *bookingService) acquireLock(ctx context.Context, lockID string) (string, error) {
	if err := s.lockRepo.Acquire(ctx, lockID, s.cfg.SlotLockTTL); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.PersistenceConflict("Another booking request is in progress for this slot. Please retry.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseLock(ctx context.Context, lockID string) {
	if err := s.lockRepo.Release(ctx, lockID); err != nil {
		s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
	}
}

func (s *bookingService) afterCommit(ctx context.Context, booking *model.Booking, emit func(EventSink)) {
	if s.events != nil {
		emit(s.events)
	}
	if s.cache != nil {
		s.cache.InvalidateResource(ctx, booking.ResourceID)
	}
}

func mapBookingError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Booking operation failed", err)
	}
}
