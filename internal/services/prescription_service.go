package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"gorm.io/gorm"
)

// PrescriptionDetail is a prescription with its notes, medicines and tests
type PrescriptionDetail struct {
	models.Prescription
	Notes     *models.DoctorNotes `json:"notes,omitempty"`
	Medicines []models.Medicine   `json:"medicines"`
	Tests     []models.Test       `json:"tests"`
}

// PrescriptionService handles doctor consultations in the current clinic
type PrescriptionService struct {
	repos *repository.Repositories
	staff *StaffService
}

// NewPrescriptionService creates a new prescription service
func NewPrescriptionService(repos *repository.Repositories, staff *StaffService) *PrescriptionService {
	return &PrescriptionService{repos: repos, staff: staff}
}

// Create opens a prescription for a patient, written by the signed-in doctor
func (s *PrescriptionService) Create(ctx context.Context, patientID uuid.UUID, req *models.PrescriptionRequest) (*PrescriptionDetail, error) {
	if _, err := s.repos.Patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	doctor, err := s.staff.DoctorForUser(ctx, tenant.UserFromContext(ctx))
	if err != nil {
		return nil, err
	}

	detail := &PrescriptionDetail{
		Prescription: models.Prescription{
			PatientID: patientID,
			DoctorID:  doctor.ID,
			Status:    models.PrescriptionPending,
		},
		Medicines: []models.Medicine{},
		Tests:     []models.Test{},
	}

	err = s.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Prescriptions.WithDB(tx).Create(ctx, &detail.Prescription); err != nil {
			return err
		}
		notes := &models.DoctorNotes{
			PrescriptionID: detail.ID,
			Observations:   req.Observations,
			Diagnosis:      req.Diagnosis,
			TreatmentPlan:  req.TreatmentPlan,
			Notes:          req.Notes,
		}
		if err := s.repos.Notes.WithDB(tx).Create(ctx, notes); err != nil {
			return err
		}
		detail.Notes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ListMine returns the signed-in doctor's prescriptions. Other staff see the
// whole clinic's prescriptions.
func (s *PrescriptionService) ListMine(ctx context.Context) ([]models.Prescription, error) {
	user := tenant.UserFromContext(ctx)
	scopes := []func(*gorm.DB) *gorm.DB{newestFirst}

	if user.Authenticated() && user.Role == models.RoleDoctor {
		doctor, err := s.staff.DoctorForUser(ctx, user)
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("doctor_id = ?", doctor.ID)
		})
	}
	return s.repos.Prescriptions.List(ctx, scopes...)
}

// Get returns a prescription of the current clinic with its lines
func (s *PrescriptionService) Get(ctx context.Context, id uuid.UUID) (*PrescriptionDetail, error) {
	p, err := s.repos.Prescriptions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	byPrescription := func(db *gorm.DB) *gorm.DB {
		return db.Where("prescription_id = ?", id)
	}
	detail := &PrescriptionDetail{Prescription: *p}

	notes, err := s.repos.Notes.List(ctx, byPrescription)
	if err != nil {
		return nil, err
	}
	if len(notes) > 0 {
		detail.Notes = &notes[0]
	}
	if detail.Medicines, err = s.repos.Medicines.List(ctx, byPrescription); err != nil {
		return nil, err
	}
	if detail.Tests, err = s.repos.Tests.List(ctx, byPrescription); err != nil {
		return nil, err
	}
	return detail, nil
}

// AddMedicine adds a drug line to a prescription of the current clinic
func (s *PrescriptionService) AddMedicine(ctx context.Context, prescriptionID uuid.UUID, req *models.MedicineRequest) (*models.Medicine, error) {
	name := strings.TrimSpace(req.MedicineName)
	if name == "" {
		return nil, invalid("medicine_name is required")
	}
	if _, err := s.repos.Prescriptions.Get(ctx, prescriptionID); err != nil {
		return nil, err
	}

	medicine := &models.Medicine{
		PrescriptionID: prescriptionID,
		MedicineName:   name,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Duration:       req.Duration,
		Instructions:   req.Instructions,
	}
	if err := s.repos.Medicines.Create(ctx, medicine); err != nil {
		return nil, err
	}
	return medicine, nil
}

// AddTest orders a test on a prescription of the current clinic
func (s *PrescriptionService) AddTest(ctx context.Context, prescriptionID uuid.UUID, req *models.TestRequest) (*models.Test, error) {
	name := strings.TrimSpace(req.TestName)
	if name == "" {
		return nil, invalid("test_name is required")
	}
	if !validTestType(req.TestType) {
		return nil, invalid("unknown test_type %q", req.TestType)
	}
	if _, err := s.repos.Prescriptions.Get(ctx, prescriptionID); err != nil {
		return nil, err
	}

	test := &models.Test{
		PrescriptionID: prescriptionID,
		TestType:       req.TestType,
		TestName:       name,
		Description:    req.Description,
		TestDate:       req.TestDate,
	}
	if err := s.repos.Tests.Create(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

func validTestType(t models.TestType) bool {
	switch t {
	case "", models.TestBlood, models.TestUrine, models.TestXRay, models.TestUltrasound, models.TestECG, models.TestOther:
		return true
	}
	return false
}
