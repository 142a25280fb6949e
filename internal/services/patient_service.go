package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"gorm.io/gorm"
)

// patientCodePrefix starts every generated patient code
const patientCodePrefix = "PAT-"

// likeEscaper makes user input match literally inside a LIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PatientService handles reception work on the current clinic's patients
type PatientService struct {
	repos *repository.Repositories
}

// NewPatientService creates a new patient service
func NewPatientService(repos *repository.Repositories) *PatientService {
	return &PatientService{repos: repos}
}

// Register adds a patient to the current clinic and assigns the next patient code
func (s *PatientService) Register(ctx context.Context, req *models.PatientRequest) (*models.Patient, error) {
	clinic, ok := tenant.ClinicFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("failed to register patient: %w", repository.ErrNoTenant)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("patient name is required")
	}
	if req.Age < 0 || req.Age > 150 {
		return nil, invalid("age %d out of range", req.Age)
	}

	patient := &models.Patient{
		Name:    name,
		Age:     req.Age,
		Phone:   strings.TrimSpace(req.Phone),
		Address: req.Address,
		Status:  models.PatientActive,
	}
	if user := tenant.UserFromContext(ctx); user.Authenticated() {
		id := user.UserID
		patient.RegisteredBy = &id
	}

	err := s.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.repos.Clinic.LockTx(ctx, tx, clinic.ID)
		if err != nil {
			return err
		}
		patients := s.repos.Patients.WithDB(tx)
		if err := checkCapacity(ctx, locked, ResourcePatients, func(ctx context.Context) (int64, error) {
			return patients.Count(ctx)
		}); err != nil {
			return err
		}

		n, err := s.repos.Clinic.NextPatientNumberTx(ctx, tx, clinic.ID)
		if err != nil {
			return err
		}
		patient.PatientCode = FormatPatientCode(n)
		return patients.Create(ctx, patient)
	})
	if err != nil {
		return nil, err
	}
	return patient, nil
}

// FormatPatientCode renders the n-th patient code of a clinic
func FormatPatientCode(n int64) string {
	return fmt.Sprintf("%s%06d", patientCodePrefix, n)
}

// List returns the current clinic's patients, newest first
func (s *PatientService) List(ctx context.Context) ([]models.Patient, error) {
	return s.repos.Patients.List(ctx, newestFirst)
}

// Search matches name, phone or patient code within the current clinic
func (s *PatientService) Search(ctx context.Context, q string) ([]models.Patient, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx)
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	return s.repos.Patients.List(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\' OR LOWER(patient_code) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}, newestFirst)
}

// Get returns one patient of the current clinic
func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return s.repos.Patients.Get(ctx, id)
}

// Delete removes one patient of the current clinic together with every
// record that refers to them, in one transaction.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repos.Patients.WithDB(tx).Get(ctx, id); err != nil {
			return err
		}

		byPatient := whereIn("patient_id", id)
		var prescriptionIDs, admissionIDs []uuid.UUID
		if err := s.repos.Prescriptions.WithDB(tx).Query(ctx).Scopes(byPatient).Pluck("id", &prescriptionIDs).Error; err != nil {
			return fmt.Errorf("failed to collect prescriptions: %w", err)
		}
		if err := s.repos.Admissions.WithDB(tx).Query(ctx).Scopes(byPatient).Pluck("id", &admissionIDs).Error; err != nil {
			return fmt.Errorf("failed to collect admissions: %w", err)
		}
		byPrescription := whereIn("prescription_id", prescriptionIDs...)

		byAdmission := whereIn("admission_id", admissionIDs...)

		// children before parents
		steps := []func() (int64, error){
			func() (int64, error) { return s.repos.Treatments.WithDB(tx).DeleteWhere(ctx, byAdmission) },
			func() (int64, error) { return s.repos.Medicines.WithDB(tx).DeleteWhere(ctx, byPrescription) },
			func() (int64, error) { return s.repos.Tests.WithDB(tx).DeleteWhere(ctx, byPrescription) },
			func() (int64, error) { return s.repos.Notes.WithDB(tx).DeleteWhere(ctx, byPrescription) },
			func() (int64, error) { return s.repos.MedicalReports.WithDB(tx).DeleteWhere(ctx, byPatient) },
			func() (int64, error) { return s.repos.TestReports.WithDB(tx).DeleteWhere(ctx, byPatient) },
			func() (int64, error) { return s.repos.Admissions.WithDB(tx).DeleteWhere(ctx, byPatient) },
			func() (int64, error) { return s.repos.Prescriptions.WithDB(tx).DeleteWhere(ctx, byPatient) },
			func() (int64, error) { return s.repos.Visits.WithDB(tx).DeleteWhere(ctx, byPatient) },
		}
		for _, step := range steps {
			if _, err := step(); err != nil {
				return err
			}
		}
		return s.repos.Patients.WithDB(tx).Delete(ctx, id)
	})
}

// CheckIn records a reception visit for a patient of the current clinic
func (s *PatientService) CheckIn(ctx context.Context, req *models.CheckInRequest) (*models.PatientVisit, error) {
	if req.PatientID == uuid.Nil {
		return nil, invalid("patient_id is required")
	}
	if _, err := s.repos.Patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	visit := &models.PatientVisit{
		PatientID:   req.PatientID,
		CheckInDate: time.Now().UTC(),
		Status:      models.VisitWaiting,
		Purpose:     req.Purpose,
		Notes:       req.Notes,
	}
	if user := tenant.UserFromContext(ctx); user.Authenticated() {
		id := user.UserID
		visit.CheckedInBy = &id
	}

	if err := s.repos.Visits.Create(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

// TodayVisits returns today's check-ins at the current clinic
func (s *PatientService) TodayVisits(ctx context.Context) ([]models.PatientVisit, error) {
	return s.repos.Visits.List(ctx, checkedInSince(startOfDay(time.Now())), func(db *gorm.DB) *gorm.DB {
		return db.Order("check_in_date ASC")
	})
}

// History collects everything the current clinic holds about a patient
func (s *PatientService) History(ctx context.Context, patientID uuid.UUID) (*models.PatientHistory, error) {
	patient, err := s.repos.Patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	byPatient := func(db *gorm.DB) *gorm.DB {
		return db.Where("patient_id = ?", patientID)
	}
	history := &models.PatientHistory{Patient: *patient}

	if history.Prescriptions, err = s.repos.Prescriptions.List(ctx, byPatient, newestFirst); err != nil {
		return nil, err
	}
	if history.Admissions, err = s.repos.Admissions.List(ctx, byPatient, func(db *gorm.DB) *gorm.DB {
		return db.Order("admitted_at DESC")
	}); err != nil {
		return nil, err
	}
	if history.Visits, err = s.repos.Visits.List(ctx, byPatient, func(db *gorm.DB) *gorm.DB {
		return db.Order("check_in_date DESC")
	}); err != nil {
		return nil, err
	}
	if history.MedicalReports, err = s.repos.MedicalReports.List(ctx, byPatient); err != nil {
		return nil, err
	}
	if history.TestReports, err = s.repos.TestReports.List(ctx, byPatient); err != nil {
		return nil, err
	}
	return history, nil
}

// whereIn matches column against ids; no ids matches nothing
func whereIn(column string, ids ...uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", ids)
	}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

