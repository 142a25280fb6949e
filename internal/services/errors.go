package services

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when a clinic limit would be exceeded
	ErrCapacityExceeded = errors.New("clinic capacity exceeded")

	// ErrSlugTaken is returned when a requested clinic slug is already in use
	ErrSlugTaken = errors.New("clinic slug already taken")

	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
