package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PlatformService is the platform operator's view across every clinic.
// It is the only caller of QueryAllTenants.
type PlatformService struct {
	repos *repository.Repositories
}

// NewPlatformService creates a new platform service
func NewPlatformService(repos *repository.Repositories) *PlatformService {
	return &PlatformService{repos: repos}
}

type clinicCount struct {
	ClinicID uuid.UUID
	Total    int64
}

// Dashboard returns platform totals and per-clinic counts
func (s *PlatformService) Dashboard(ctx context.Context) (*models.PlatformDashboard, error) {
	clinics, err := s.repos.Clinic.List(ctx)
	if err != nil {
		return nil, err
	}

	patients, err := countByClinic(s.repos.Patients.QueryAllTenants(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}
	doctors, err := countByClinic(s.repos.Doctors.QueryAllTenants(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to count doctors: %w", err)
	}
	prescriptions, err := countByClinic(s.repos.Prescriptions.QueryAllTenants(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	dash := &models.PlatformDashboard{
		TotalClinics: len(clinics),
		Clinics:      make([]models.ClinicSummary, 0, len(clinics)),
	}
	for _, c := range clinics {
		if c.IsActive {
			dash.ActiveClinics++
		}
		summary := models.ClinicSummary{
			Clinic:        c,
			Patients:      patients[c.ID],
			Doctors:       doctors[c.ID],
			Prescriptions: prescriptions[c.ID],
		}
		dash.TotalPatients += summary.Patients
		dash.TotalDoctors += summary.Doctors
		dash.TotalPrescriptions += summary.Prescriptions
		dash.Clinics = append(dash.Clinics, summary)
	}
	return dash, nil
}

func countByClinic(q *gorm.DB) (map[uuid.UUID]int64, error) {
	var rows []clinicCount
	if err := q.Select("clinic_id, COUNT(*) AS total").Group("clinic_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.ClinicID] = row.Total
	}
	return counts, nil
}

func (s *PlatformService) clinic(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	clinic, err := s.repos.Clinic.GetByID(ctx, id)
	if errors.Is(err, tenant.ErrClinicNotFound) {
		return nil, fmt.Errorf("clinic %s: %w", id, repository.ErrNotFound)
	}
	return clinic, err
}

// ClinicPatients lists the patients of one clinic
func (s *PlatformService) ClinicPatients(ctx context.Context, clinicID uuid.UUID) ([]models.Patient, error) {
	clinic, err := s.clinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return s.repos.Patients.ListForClinic(ctx, clinic, newestFirst)
}

// ClinicDoctors lists the doctor profiles of one clinic
func (s *PlatformService) ClinicDoctors(ctx context.Context, clinicID uuid.UUID) ([]models.Doctor, error) {
	clinic, err := s.clinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return s.repos.Doctors.ListForClinic(ctx, clinic, newestFirst)
}

// ClinicPrescriptions lists the prescriptions of one clinic
func (s *PlatformService) ClinicPrescriptions(ctx context.Context, clinicID uuid.UUID) ([]models.Prescription, error) {
	clinic, err := s.clinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return s.repos.Prescriptions.ListForClinic(ctx, clinic, newestFirst)
}

// SetClinicActive activates or deactivates a clinic
func (s *PlatformService) SetClinicActive(ctx context.Context, clinicID uuid.UUID, active bool) (*models.Clinic, error) {
	clinic, err := s.repos.Clinic.SetActive(ctx, clinicID, active)
	if errors.Is(err, tenant.ErrClinicNotFound) {
		return nil, fmt.Errorf("clinic %s: %w", clinicID, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.AuditClinicStatus, clinic, fmt.Sprintf("is_active=%t", active))
	log.Info().Str("clinic_id", clinicID.String()).Bool("is_active", active).Msg("Clinic status changed")
	return clinic, nil
}

// DeleteClinic removes a clinic and all of its data
func (s *PlatformService) DeleteClinic(ctx context.Context, clinicID uuid.UUID) error {
	clinic, err := s.clinic(ctx, clinicID)
	if err != nil {
		return err
	}
	if err := s.repos.Clinic.Delete(ctx, clinicID); err != nil {
		return err
	}

	s.record(ctx, models.AuditClinicDeleted, clinic, clinic.Slug)
	log.Warn().Str("clinic_id", clinicID.String()).Str("clinic_slug", clinic.Slug).Msg("Clinic deleted")
	return nil
}

func (s *PlatformService) record(ctx context.Context, action string, clinic *models.Clinic, detail string) {
	id := clinic.ID
	entry := &models.AuditLog{
		ClinicID:     &id,
		Action:       action,
		ResourceType: "Clinic",
		Detail:       detail,
	}
	if user := tenant.UserFromContext(ctx); user.Authenticated() {
		uid := user.UserID
		entry.UserID = &uid
	}
	if err := s.repos.Audit.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to write audit log")
	}
}

// CreateSuperAdmin creates a platform operator account, which belongs to no clinic
func (s *PlatformService) CreateSuperAdmin(ctx context.Context, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	err := s.repos.Users.QueryAllTenants(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, invalid("username %q is already in use", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create super admin: %w", err)
	}
	return user, nil
}

// FindUser looks an account up by username in any clinic
func (s *PlatformService) FindUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.repos.Users.QueryAllTenants(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", username, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
