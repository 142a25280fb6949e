package repository

import "errors"

var (
	// ErrNotFound is returned when no row matches within the visible clinic
	ErrNotFound = errors.New("record not found")

	// ErrNoTenant is returned when a write is attempted without a current clinic
	ErrNoTenant = errors.New("no clinic in context")

	// ErrInvalidArgument is returned when an explicit clinic is required but missing
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCrossTenant is returned when an entity owned by another clinic is written
	ErrCrossTenant = errors.New("entity belongs to another clinic")
)
