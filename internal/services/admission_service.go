package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"gorm.io/gorm"
)

// AdmissionService handles inpatient stays in the current clinic
type AdmissionService struct {
	repos *repository.Repositories
	staff *StaffService
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(repos *repository.Repositories, staff *StaffService) *AdmissionService {
	return &AdmissionService{repos: repos, staff: staff}
}

// Admit admits a patient of the current clinic under the signed-in doctor
func (s *AdmissionService) Admit(ctx context.Context, patientID uuid.UUID, req *models.AdmissionRequest) (*models.Admission, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, invalid("reason is required")
	}

	patient, err := s.repos.Patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if req.PrescriptionID != nil {
		if _, err := s.repos.Prescriptions.Get(ctx, *req.PrescriptionID); err != nil {
			return nil, err
		}
	}
	doctor, err := s.staff.DoctorForUser(ctx, tenant.UserFromContext(ctx))
	if err != nil {
		return nil, err
	}

	admission := &models.Admission{
		PatientID:      patientID,
		DoctorID:       doctor.ID,
		PrescriptionID: req.PrescriptionID,
		Reason:         reason,
		Ward:           req.Ward,
		BedNumber:      req.BedNumber,
		Status:         models.AdmissionAdmitted,
		AdmittedAt:     time.Now().UTC(),
	}

	err = s.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Admissions.WithDB(tx).Create(ctx, admission); err != nil {
			return err
		}
		patient.Status = models.PatientAdmitted
		return s.repos.Patients.WithDB(tx).Update(ctx, patient)
	})
	if err != nil {
		return nil, err
	}
	return admission, nil
}

// List returns the current clinic's admissions, optionally by status
func (s *AdmissionService) List(ctx context.Context, status models.AdmissionStatus) ([]models.Admission, error) {
	scopes := []func(*gorm.DB) *gorm.DB{func(db *gorm.DB) *gorm.DB {
		return db.Order("admitted_at DESC")
	}}
	if status != "" {
		scopes = append(scopes, withStatus(status))
	}
	return s.repos.Admissions.List(ctx, scopes...)
}

// AddTreatment logs a treatment on an admission of the current clinic
func (s *AdmissionService) AddTreatment(ctx context.Context, admissionID uuid.UUID, req *models.TreatmentRequest) (*models.TreatmentLog, error) {
	treatment := strings.TrimSpace(req.Treatment)
	if treatment == "" {
		return nil, invalid("treatment is required")
	}
	if _, err := s.repos.Admissions.Get(ctx, admissionID); err != nil {
		return nil, err
	}

	entry := &models.TreatmentLog{
		AdmissionID: admissionID,
		Treatment:   treatment,
		Notes:       req.Notes,
		RecordedAt:  time.Now().UTC(),
	}
	if user := tenant.UserFromContext(ctx); user.Authenticated() {
		id := user.UserID
		entry.RecordedBy = &id
	}

	if err := s.repos.Treatments.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
