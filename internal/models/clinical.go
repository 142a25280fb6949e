package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrescriptionStatus tracks a prescription through consultation
type PrescriptionStatus string

const (
	PrescriptionPending   PrescriptionStatus = "pending"
	PrescriptionCompleted PrescriptionStatus = "completed"
)

// Prescription is written by a doctor for a patient
type Prescription struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PatientID uuid.UUID          `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Status    PrescriptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time          `gorm:"index" json:"prescription_date"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TableName overrides the table name
func (Prescription) TableName() string {
	return "prescriptions"
}

// BeforeCreate hook
func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PrescriptionPending
	}
	return nil
}

// TestType groups ordered tests
type TestType string

const (
	TestBlood      TestType = "blood"
	TestUrine      TestType = "urine"
	TestXRay       TestType = "xray"
	TestUltrasound TestType = "ultrasound"
	TestECG        TestType = "ecg"
	TestOther      TestType = "other"
)

// Test is a diagnostic test ordered on a prescription
type Test struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PrescriptionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"prescription_id"`
	TestType       TestType   `gorm:"type:varchar(20);not null" json:"test_type"`
	TestName       string     `gorm:"type:varchar(255);not null" json:"test_name"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	TestDate       *time.Time `json:"test_date,omitempty"`
	IsCompleted    bool       `gorm:"not null" json:"is_completed"`
}

// TableName overrides the table name
func (Test) TableName() string {
	return "tests"
}

// BeforeCreate hook
func (t *Test) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.TestType == "" {
		t.TestType = TestOther
	}
	return nil
}

// Medicine is a drug line on a prescription
type Medicine struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"prescription_id"`
	MedicineName   string    `gorm:"type:varchar(255);not null" json:"medicine_name"`
	Dosage         string    `gorm:"type:varchar(100)" json:"dosage"`
	Frequency      string    `gorm:"type:varchar(100)" json:"frequency"`
	Duration       string    `gorm:"type:varchar(100)" json:"duration"`
	Instructions   string    `gorm:"type:text" json:"instructions,omitempty"`
}

// TableName overrides the table name
func (Medicine) TableName() string {
	return "medicines"
}

// BeforeCreate hook
func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// DoctorNotes holds a doctor's observations for one prescription
type DoctorNotes struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PrescriptionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"prescription_id"`
	Observations   string    `gorm:"type:text" json:"observations"`
	Diagnosis      string    `gorm:"type:text" json:"diagnosis"`
	TreatmentPlan  string    `gorm:"type:text" json:"treatment_plan"`
	Notes          string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (DoctorNotes) TableName() string {
	return "doctor_notes"
}

// BeforeCreate hook
func (n *DoctorNotes) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// AdmissionStatus is the stay state of an admission
type AdmissionStatus string

const (
	AdmissionAdmitted   AdmissionStatus = "admitted"
	AdmissionDischarged AdmissionStatus = "discharged"
)

// Admission is an inpatient stay
type Admission struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PrescriptionID *uuid.UUID      `gorm:"type:uuid" json:"prescription_id,omitempty"`
	Reason         string          `gorm:"type:text;not null" json:"reason"`
	Ward           string          `gorm:"type:varchar(50)" json:"ward,omitempty"`
	BedNumber      string          `gorm:"type:varchar(20)" json:"bed_number,omitempty"`
	Status         AdmissionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AdmittedAt     time.Time       `gorm:"not null;index" json:"admitted_at"`
	DischargedAt   *time.Time      `json:"discharged_at,omitempty"`
}

// TableName overrides the table name
func (Admission) TableName() string {
	return "admissions"
}

// BeforeCreate hook
func (a *Admission) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AdmissionAdmitted
	}
	return nil
}

// TreatmentLog is one treatment entry during an admission
type TreatmentLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	AdmissionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"admission_id"`
	Treatment   string     `gorm:"type:text;not null" json:"treatment"`
	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy  *uuid.UUID `gorm:"type:uuid" json:"recorded_by,omitempty"`
	RecordedAt  time.Time  `gorm:"not null;index" json:"recorded_at"`
}

// TableName overrides the table name
func (TreatmentLog) TableName() string {
	return "treatment_logs"
}

// BeforeCreate hook
func (t *TreatmentLog) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// PrescriptionRequest represents a request to open a prescription
type PrescriptionRequest struct {
	Observations  string `json:"observations,omitempty"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	TreatmentPlan string `json:"treatment_plan,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// MedicineRequest represents a drug line to add to a prescription
type MedicineRequest struct {
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// TestRequest represents a test to order on a prescription
type TestRequest struct {
	TestType    TestType   `json:"test_type"`
	TestName    string     `json:"test_name"`
	Description string     `json:"description,omitempty"`
	TestDate    *time.Time `json:"test_date,omitempty"`
}

// AdmissionRequest represents a request to admit a patient
type AdmissionRequest struct {
	PrescriptionID *uuid.UUID `json:"prescription_id,omitempty"`
	Reason         string     `json:"reason"`
	Ward           string     `json:"ward,omitempty"`
	BedNumber      string     `json:"bed_number,omitempty"`
}

// TreatmentRequest represents a treatment log entry
type TreatmentRequest struct {
	Treatment string `json:"treatment"`
	Notes     string `json:"notes,omitempty"`
}

// PatientHistory aggregates a patient's records within a clinic
type PatientHistory struct {
	Patient        Patient         `json:"patient"`
	Prescriptions  []Prescription  `json:"prescriptions"`
	Admissions     []Admission     `json:"admissions"`
	Visits         []PatientVisit  `json:"visits"`
	MedicalReports []MedicalReport `json:"medical_reports"`
	TestReports    []TestReport    `json:"test_reports"`
}
