package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff or patient account. ClinicID is nil for platform operators.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID  *uuid.UUID `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	Username  string     `gorm:"type:varchar(150);not null;uniqueIndex" json:"username"`
	FirstName string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string     `gorm:"type:varchar(100)" json:"last_name"`
	Email     string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Role      Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive  bool       `gorm:"not null" json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) OwningClinicID() uuid.UUID {
	if u.ClinicID == nil {
		return uuid.Nil
	}
	return *u.ClinicID
}

func (u *User) SetOwningClinic(id uuid.UUID) {
	u.ClinicID = &id
}

// Principal returns the request identity for this account
func (u *User) Principal() *Principal {
	return &Principal{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		ClinicID: u.ClinicID,
	}
}

// Doctor holds the professional profile of a doctor account
type Doctor struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicScoped
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Specialization string    `gorm:"type:varchar(100)" json:"specialization"`
	LicenseNumber  string    `gorm:"type:varchar(50)" json:"license_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Doctor) TableName() string {
	return "doctors"
}

// BeforeCreate hook
func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// StaffRequest represents a request to create a doctor or receptionist account
type StaffRequest struct {
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	LicenseNumber  string `json:"license_number,omitempty"`
}
