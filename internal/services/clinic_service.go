package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/otcheredev/clinichub/pkg/slug"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxSlugAttempts bounds the numeric suffixes tried for a generated slug
const maxSlugAttempts = 100

// ClinicService handles clinic registration and the clinic dashboard
type ClinicService struct {
	repos *repository.Repositories
}

// NewClinicService creates a new clinic service
func NewClinicService(repos *repository.Repositories) *ClinicService {
	return &ClinicService{repos: repos}
}

// Register creates a clinic together with its first admin account
func (s *ClinicService) Register(ctx context.Context, req *models.ClinicRegistration) (*models.Clinic, *models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, invalid("clinic name is required")
	}
	username := strings.TrimSpace(req.AdminUsername)
	if username == "" {
		return nil, nil, invalid("admin username is required")
	}
	if req.MaxDoctors < 0 || req.MaxPatients < 0 || req.MaxReceptionists < 0 {
		return nil, nil, invalid("capacity limits cannot be negative")
	}

	clinicSlug, err := s.pickSlug(ctx, name, req.Slug)
	if err != nil {
		return nil, nil, err
	}

	clinic := &models.Clinic{
		Name:               name,
		Slug:               clinicSlug,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		IsActive:           true,
		SubscriptionStatus: models.SubscriptionTrial,
		MaxDoctors:         req.MaxDoctors,
		MaxPatients:        req.MaxPatients,
		MaxReceptionists:   req.MaxReceptionists,
	}
	admin := &models.User{
		Username:  username,
		FirstName: req.AdminFirstName,
		LastName:  req.AdminLastName,
		Email:     req.AdminEmail,
		Role:      models.RoleAdmin,
		IsActive:  true,
	}

	err = s.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repos.Clinic.CreateTx(ctx, tx, clinic); err != nil {
			return err
		}
		clinicCtx := tenant.WithClinic(ctx, clinic, nil)
		return s.repos.Users.WithDB(tx).Create(clinicCtx, admin)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, nil, fmt.Errorf("%w: clinic slug or admin username in use", ErrSlugTaken)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register clinic: %w", err)
	}

	log.Info().
		Str("clinic_id", clinic.ID.String()).
		Str("clinic_slug", clinic.Slug).
		Str("admin", admin.Username).
		Msg("Clinic registered")

	return clinic, admin, nil
}

// pickSlug returns requested when it is free, or derives a free slug from
// name by appending -2, -3, ... to it.
func (s *ClinicService) pickSlug(ctx context.Context, name, requested string) (string, error) {
	if requested = strings.TrimSpace(requested); requested != "" {
		if !slug.Valid(requested) {
			return "", invalid("slug %q must be lowercase letters, digits and single hyphens", requested)
		}
		taken, err := s.repos.Clinic.SlugExists(ctx, requested)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: %s", ErrSlugTaken, requested)
		}
		return requested, nil
	}

	base := slug.Make(name)
	if base == "" {
		return "", invalid("clinic name %q yields an empty slug", name)
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		taken, err := s.repos.Clinic.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = slug.WithSuffix(base, n)
	}
	return "", fmt.Errorf("%w: no free slug for %q", ErrSlugTaken, name)
}

// Dashboard summarises the current clinic
func (s *ClinicService) Dashboard(ctx context.Context) (*models.ClinicDashboard, error) {
	clinic, ok := tenant.ClinicFromContext(ctx)
	if !ok {
		return nil, repository.ErrNoTenant
	}

	dash := &models.ClinicDashboard{Clinic: *clinic}
	var err error

	if dash.Patients, err = s.repos.Patients.Count(ctx); err != nil {
		return nil, err
	}
	if dash.Doctors, err = s.repos.Doctors.Count(ctx); err != nil {
		return nil, err
	}
	if dash.Receptionists, err = s.repos.Users.Count(ctx, withRole(models.RoleReceptionist)); err != nil {
		return nil, err
	}
	if dash.TodayCheckIns, err = s.repos.Visits.Count(ctx, checkedInSince(startOfDay(time.Now()))); err != nil {
		return nil, err
	}
	if dash.PendingPrescriptions, err = s.repos.Prescriptions.Count(ctx, withStatus(models.PrescriptionPending)); err != nil {
		return nil, err
	}
	if dash.ActiveAdmissions, err = s.repos.Admissions.Count(ctx, withStatus(models.AdmissionAdmitted)); err != nil {
		return nil, err
	}

	return dash, nil
}

func withStatus[S ~string](status S) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", string(status))
	}
}

func checkedInSince(t time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("check_in_date >= ?", t)
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
