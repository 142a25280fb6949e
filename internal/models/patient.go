package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientStatus is the care status of a patient
type PatientStatus string

const (
	PatientActive     PatientStatus = "active"
	PatientAdmitted   PatientStatus = "admitted"
	PatientDischarged PatientStatus = "discharged"
)

// Patient is a patient registered at a clinic. PatientCode is unique within
// the clinic.
type Patient struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_clinic_patient_code,priority:1" json:"clinic_id"`
	PatientCode  string        `gorm:"type:varchar(20);not null;uniqueIndex:idx_clinic_patient_code,priority:2" json:"patient_code"`
	Name         string        `gorm:"type:varchar(255);not null;index" json:"name"`
	Age          int           `json:"age"`
	Phone        string        `gorm:"type:varchar(15);index" json:"phone"`
	Address      string        `gorm:"type:text" json:"address"`
	Status       PatientStatus `gorm:"type:varchar(20);not null" json:"status"`
	RegisteredBy *uuid.UUID    `gorm:"type:uuid" json:"registered_by,omitempty"`
	CreatedAt    time.Time     `gorm:"index" json:"registration_date"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName overrides the table name
func (Patient) TableName() string {
	return "patients"
}

// BeforeCreate hook
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PatientActive
	}
	return nil
}

func (p *Patient) OwningClinicID() uuid.UUID {
	return p.ClinicID
}

func (p *Patient) SetOwningClinic(id uuid.UUID) {
	p.ClinicID = id
}

// VisitStatus is the reception state of a check-in
type VisitStatus string

const (
	VisitWaiting        VisitStatus = "waiting"
	VisitInConsultation VisitStatus = "in_consultation"
	VisitCompleted      VisitStatus = "completed"
)

// PatientVisit is a reception check-in
type PatientVisit struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PatientID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"patient_id"`
	CheckInDate time.Time   `gorm:"not null;index" json:"check_in_date"`
	Status      VisitStatus `gorm:"type:varchar(20);not null" json:"status"`
	Purpose     string      `gorm:"type:varchar(255)" json:"purpose"`
	Notes       string      `gorm:"type:text" json:"notes,omitempty"`
	CheckedInBy *uuid.UUID  `gorm:"type:uuid" json:"checked_in_by,omitempty"`
}

// TableName overrides the table name
func (PatientVisit) TableName() string {
	return "patient_visits"
}

// BeforeCreate hook
func (v *PatientVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Status == "" {
		v.Status = VisitWaiting
	}
	return nil
}

// MedicalReport is the metadata of an uploaded report; file contents live elsewhere
type MedicalReport struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PatientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	AdmissionID *uuid.UUID `gorm:"type:uuid;index" json:"admission_id,omitempty"`
	ReportType  string     `gorm:"type:varchar(100)" json:"report_type"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	FileName    string     `gorm:"type:varchar(255)" json:"file_name"`
	UploadedAt  time.Time  `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

// TableName overrides the table name
func (MedicalReport) TableName() string {
	return "medical_reports"
}

// BeforeCreate hook
func (m *MedicalReport) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TestReport is the metadata of an uploaded lab/imaging result
type TestReport struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	PatientID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	TestType   string     `gorm:"type:varchar(100)" json:"test_type"`
	FileName   string     `gorm:"type:varchar(255)" json:"file_name"`
	TestDate   *time.Time `json:"test_date,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes,omitempty"`
	UploadedAt time.Time  `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

// TableName overrides the table name
func (TestReport) TableName() string {
	return "test_reports"
}

// BeforeCreate hook
func (t *TestReport) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// PatientRequest represents a request to register a patient
type PatientRequest struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CheckInRequest represents a reception check-in
type CheckInRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	Purpose   string    `json:"purpose"`
	Notes     string    `json:"notes,omitempty"`
}
