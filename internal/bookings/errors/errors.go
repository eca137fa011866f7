package errors

import "errors"

var (
	// ErrNotFound is returned when a booking is not found by ID
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidID is returned when an ID format is invalid
	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrLockHeld is returned when another request holds the advisory lock
	// for the same resource or staff member
	ErrLockHeld = errors.New("booking lock held by another request")
)
