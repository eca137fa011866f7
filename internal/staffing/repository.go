package staffing

import (
	"context"
	"fmt"
	"time"

	"slotwise/pkg/config"
	"slotwise/pkg/model"
	"slotwise/pkg/timeutil"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	StaffCollectionName        = "staff"
	AvailabilityCollectionName = "staff_availability"
	AssignmentCollectionName   = "staff_assignments"
)

// StaffRepository covers both the resolver's reads and the assignment writes
// made by the booking flow. Assignment writes happen inside booking
// transactions, so they must tolerate a SessionContext.
type StaffRepository interface {
	FindCapableStaff(ctx context.Context, resourceID string) ([]*model.StaffMember, error)
	FindAvailability(ctx context.Context, staffID string) ([]*model.StaffAvailability, error)
	FindOverlappingAssignments(ctx context.Context, staffIDs []string, interval timeutil.Interval) ([]*model.StaffAssignment, error)

	CreateAssignment(ctx context.Context, assignment *model.StaffAssignment) error
	DeleteAssignmentsByBooking(ctx context.Context, bookingID string) (int64, error)
}

type mongoStaffRepository struct {
	cfg          *config.Config
	db           *mongo.Database
	staff        *mongo.Collection
	availability *mongo.Collection
	assignments  *mongo.Collection
}

func NewMongoStaffRepository(cfg *config.Config) StaffRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStaffRepository{
		cfg:          cfg,
		db:           db,
		staff:        db.Collection(StaffCollectionName),
		availability: db.Collection(AvailabilityCollectionName),
		assignments:  db.Collection(AssignmentCollectionName),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction. A SessionContext cannot be wrapped without breaking
// transaction semantics, so it is returned unchanged with a no-op cancel.
func (r *mongoStaffRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoStaffRepository) FindCapableStaff(ctx context.Context, resourceID string) ([]*model.StaffMember, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"resource_ids": resourceID,
		"active":       true,
	}

	cursor, err := r.staff.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff for resource [%s]: %w", resourceID, err)
	}
	defer cursor.Close(ctx)

	var members []*model.StaffMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode staff members: %w", err)
	}

	return members, nil
}

func (r *mongoStaffRepository) FindAvailability(ctx context.Context, staffID string) ([]*model.StaffAvailability, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.availability.Find(ctx, bson.M{"staff_id": staffID})
	if err != nil {
		return nil, fmt.Errorf("failed to query availability for staff [%s]: %w", staffID, err)
	}
	defer cursor.Close(ctx)

	var windows []*model.StaffAvailability
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode staff availability: %w", err)
	}

	return windows, nil
}

func (r *mongoStaffRepository) FindOverlappingAssignments(ctx context.Context, staffIDs []string, interval timeutil.Interval) ([]*model.StaffAssignment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Half-open overlap: existing.start < candidate.end AND candidate.start < existing.end.
	filter := bson.M{
		"staff_id":   bson.M{"$in": staffIDs},
		"start_time": bson.M{"$lt": interval.End},
		"end_time":   bson.M{"$gt": interval.Start},
	}

	cursor, err := r.assignments.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff assignments: %w", err)
	}
	defer cursor.Close(ctx)

	var assignments []*model.StaffAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode staff assignments: %w", err)
	}

	return assignments, nil
}

func (r *mongoStaffRepository) CreateAssignment(ctx context.Context, assignment *model.StaffAssignment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.assignments.InsertOne(ctx, assignment); err != nil {
		return fmt.Errorf("failed to create staff assignment: %w", err)
	}

	return nil
}

func (r *mongoStaffRepository) DeleteAssignmentsByBooking(ctx context.Context, bookingID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.assignments.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete assignments for booking [%s]: %w", bookingID, err)
	}

	return result.DeletedCount, nil
}
