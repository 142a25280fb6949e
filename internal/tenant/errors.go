package tenant

import "errors"

var (
	// ErrClinicNotFound is returned by a ClinicLookup when no clinic matches.
	ErrClinicNotFound = errors.New("clinic not found")

	// ErrNoTenantInContext is returned when a handler requires a clinic and none was resolved.
	ErrNoTenantInContext = errors.New("no clinic in context")

	// ErrForeignClinic is returned when a staff user acts under another clinic's URL.
	ErrForeignClinic = errors.New("user does not belong to this clinic")
)
