package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions
const (
	AuditCrossTenantQuery = "cross_tenant_query"
	AuditClinicDeleted    = "clinic_deleted"
	AuditClinicStatus     = "clinic_status_changed"
)

// AuditLog represents an audit log entry.
// ClinicID is nil when the audited operation spans all clinics.
type AuditLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID     *uuid.UUID `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action       string     `gorm:"type:varchar(100);not null;index" json:"action"`
	ResourceType string     `gorm:"type:varchar(50);index" json:"resource_type"`
	Method       string     `gorm:"type:varchar(50)" json:"method,omitempty"`
	RequestID    string     `gorm:"type:varchar(100)" json:"request_id,omitempty"`
	Detail       string     `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate hook
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
