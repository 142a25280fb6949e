package models

import "github.com/google/uuid"

// ClinicOwned is implemented by every tenant-owned entity.
type ClinicOwned interface {
	OwningClinicID() uuid.UUID
	SetOwningClinic(id uuid.UUID)
}

// ClinicScoped is embedded into tenant-owned models to carry the owning clinic.
// The column is written once on create and never reassigned.
type ClinicScoped struct {
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
}

func (s *ClinicScoped) OwningClinicID() uuid.UUID {
	return s.ClinicID
}

func (s *ClinicScoped) SetOwningClinic(id uuid.UUID) {
	s.ClinicID = id
}
