package repository

import (
	"time"

	"github.com/otcheredev/clinichub/internal/cache"
	"github.com/otcheredev/clinichub/internal/models"
	"gorm.io/gorm"
)

// Repositories bundles the scoped repository of every tenant-owned entity
// together with the clinic and audit repositories.
type Repositories struct {
	DB     *gorm.DB
	Clinic *ClinicRepository
	Audit  *AuditRepository

	Users          *Scoped[models.User, *models.User]
	Doctors        *Scoped[models.Doctor, *models.Doctor]
	Patients       *Scoped[models.Patient, *models.Patient]
	Visits         *Scoped[models.PatientVisit, *models.PatientVisit]
	Prescriptions  *Scoped[models.Prescription, *models.Prescription]
	Notes          *Scoped[models.DoctorNotes, *models.DoctorNotes]
	Medicines      *Scoped[models.Medicine, *models.Medicine]
	Tests          *Scoped[models.Test, *models.Test]
	MedicalReports *Scoped[models.MedicalReport, *models.MedicalReport]
	TestReports    *Scoped[models.TestReport, *models.TestReport]
	Admissions     *Scoped[models.Admission, *models.Admission]
	Treatments     *Scoped[models.TreatmentLog, *models.TreatmentLog]
}

// New wires every repository on db. c may be nil to disable clinic caching.
func New(db *gorm.DB, c cache.Cache, cacheTTL time.Duration) *Repositories {
	audit := NewAuditRepository(db)
	return &Repositories{
		DB:     db,
		Clinic: NewClinicRepository(db, c, cacheTTL),
		Audit:  audit,

		Users:          NewScoped[models.User](db, audit),
		Doctors:        NewScoped[models.Doctor](db, audit),
		Patients:       NewScoped[models.Patient](db, audit),
		Visits:         NewScoped[models.PatientVisit](db, audit),
		Prescriptions:  NewScoped[models.Prescription](db, audit),
		Notes:          NewScoped[models.DoctorNotes](db, audit),
		Medicines:      NewScoped[models.Medicine](db, audit),
		Tests:          NewScoped[models.Test](db, audit),
		MedicalReports: NewScoped[models.MedicalReport](db, audit),
		TestReports:    NewScoped[models.TestReport](db, audit),
		Admissions:     NewScoped[models.Admission](db, audit),
		Treatments:     NewScoped[models.TreatmentLog](db, audit),
	}
}
