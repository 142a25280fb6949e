package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionStatus is the billing state of a clinic
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Clinic is the tenant root. Every tenant-owned row references exactly one clinic.
type Clinic struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string             `gorm:"type:varchar(255);not null" json:"name"`
	Slug               string             `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Email              string             `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone              string             `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address            string             `gorm:"type:text" json:"address,omitempty"`
	IsActive           bool               `gorm:"not null" json:"is_active"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);not null" json:"subscription_status"`

	// Capacity limits, 0 means unlimited
	MaxDoctors       int `gorm:"not null;default:0" json:"max_doctors"`
	MaxPatients      int `gorm:"not null;default:0" json:"max_patients"`
	MaxReceptionists int `gorm:"not null;default:0" json:"max_receptionists"`

	// PatientSequence is the number of the last patient code issued
	PatientSequence int64 `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Clinic) TableName() string {
	return "clinics"
}

// BeforeCreate hook
func (c *Clinic) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.SubscriptionStatus == "" {
		c.SubscriptionStatus = SubscriptionTrial
	}
	return nil
}

// Role of a staff or patient account
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

// Principal is the authenticated identity attached to a request.
// A nil *Principal is an anonymous caller.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	// ClinicID is nil for platform operators and users not assigned to a clinic
	ClinicID *uuid.UUID
}

// AssignedClinic returns the principal's clinic, if any
func (p *Principal) AssignedClinic() (uuid.UUID, bool) {
	if p == nil || p.ClinicID == nil || *p.ClinicID == uuid.Nil {
		return uuid.Nil, false
	}
	return *p.ClinicID, true
}

// Authenticated reports whether p identifies a signed-in user
func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID != uuid.Nil
}

// IsSuperAdmin reports whether p is a platform operator
func (p *Principal) IsSuperAdmin() bool {
	return p.Authenticated() && p.Role == RoleSuperAdmin
}

// ClinicRegistration represents a public clinic sign-up
type ClinicRegistration struct {
	Name    string `json:"name"`
	Slug    string `json:"slug,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	AdminUsername  string `json:"admin_username"`
	AdminFirstName string `json:"admin_first_name,omitempty"`
	AdminLastName  string `json:"admin_last_name,omitempty"`
	AdminEmail     string `json:"admin_email,omitempty"`

	MaxDoctors       int `json:"max_doctors,omitempty"`
	MaxPatients      int `json:"max_patients,omitempty"`
	MaxReceptionists int `json:"max_receptionists,omitempty"`
}

// ClinicStatusRequest toggles a clinic's activation
type ClinicStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// ClinicDashboard summarises the current clinic
type ClinicDashboard struct {
	Clinic               Clinic `json:"clinic"`
	Patients             int64  `json:"patients"`
	Doctors              int64  `json:"doctors"`
	Receptionists        int64  `json:"receptionists"`
	TodayCheckIns        int64  `json:"today_check_ins"`
	PendingPrescriptions int64  `json:"pending_prescriptions"`
	ActiveAdmissions     int64  `json:"active_admissions"`
}

// ClinicSummary is one row of the platform dashboard
type ClinicSummary struct {
	Clinic        Clinic `json:"clinic"`
	Patients      int64  `json:"patients"`
	Doctors       int64  `json:"doctors"`
	Prescriptions int64  `json:"prescriptions"`
}

// PlatformDashboard summarises every clinic for platform operators
type PlatformDashboard struct {
	TotalClinics       int             `json:"total_clinics"`
	ActiveClinics      int             `json:"active_clinics"`
	TotalPatients      int64           `json:"total_patients"`
	TotalDoctors       int64           `json:"total_doctors"`
	TotalPrescriptions int64           `json:"total_prescriptions"`
	Clinics            []ClinicSummary `json:"clinics"`
}
