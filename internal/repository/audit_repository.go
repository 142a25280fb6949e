package repository

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create creates a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.RequestID == "" {
		entry.RequestID = middleware.GetReqID(ctx)
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// RecordCrossTenant writes one audit row for a query that bypassed the
// current clinic. Failures are logged; the query itself still runs.
func (r *AuditRepository) RecordCrossTenant(ctx context.Context, access CrossTenantAccess) {
	entry := &models.AuditLog{
		ClinicID:     access.ClinicID,
		Action:       models.AuditCrossTenantQuery,
		ResourceType: access.Entity,
		Method:       access.Method,
	}
	if access.User.Authenticated() {
		id := access.User.UserID
		entry.UserID = &id
		entry.Detail = "by " + access.User.Username
	}

	if err := r.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("method", access.Method).
			Str("entity", access.Entity).
			Msg("Failed to record cross-tenant query")
	}
}

// GetByClinicID retrieves audit logs for a clinic, newest first
func (r *AuditRepository) GetByClinicID(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}

	return logs, nil
}

// GetByAction retrieves audit logs with the given action, newest first
func (r *AuditRepository) GetByAction(ctx context.Context, action string, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	query := r.db.WithContext(ctx).
		Where("action = ?", action).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	return logs, nil
}
