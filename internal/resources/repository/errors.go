package repository

import "errors"

var (
	// ErrNotFound is returned when a resource is not found by ID
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidID is returned when an ID format is invalid
	ErrInvalidID = errors.New("invalid resource ID format")
)
