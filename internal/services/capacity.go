package services

import (
	"context"
	"fmt"

	"github.com/otcheredev/clinichub/internal/models"
	"gorm.io/gorm"
)

// Resource kinds with a per-clinic limit
const (
	ResourceDoctors       = "doctors"
	ResourcePatients      = "patients"
	ResourceReceptionists = "receptionists"
)

func limitFor(clinic *models.Clinic, resource string) int {
	switch resource {
	case ResourceDoctors:
		return clinic.MaxDoctors
	case ResourcePatients:
		return clinic.MaxPatients
	case ResourceReceptionists:
		return clinic.MaxReceptionists
	}
	return 0
}

// checkCapacity fails with ErrCapacityExceeded when adding one more resource
// would pass the clinic's limit. A limit of 0 means unlimited.
func checkCapacity(ctx context.Context, clinic *models.Clinic, resource string, count func(context.Context) (int64, error)) error {
	limit := limitFor(clinic, resource)
	if limit <= 0 {
		return nil
	}

	current, err := count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check %s capacity: %w", resource, err)
	}
	if current >= int64(limit) {
		return fmt.Errorf("%w: %s limit of %d reached", ErrCapacityExceeded, resource, limit)
	}
	return nil
}

func withRole(role models.Role) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("role = ?", role)
	}
}
