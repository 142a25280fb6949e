package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StaffMember is a staff account with its doctor profile, if any
type StaffMember struct {
	User   models.User    `json:"user"`
	Doctor *models.Doctor `json:"doctor,omitempty"`
}

// StaffService manages the current clinic's staff accounts
type StaffService struct {
	repos *repository.Repositories
}

// NewStaffService creates a new staff service
func NewStaffService(repos *repository.Repositories) *StaffService {
	return &StaffService{repos: repos}
}

// CreateDoctor creates a doctor account and profile in the current clinic
func (s *StaffService) CreateDoctor(ctx context.Context, req *models.StaffRequest) (*StaffMember, error) {
	return s.create(ctx, req, models.RoleDoctor)
}

// CreateReceptionist creates a receptionist account in the current clinic
func (s *StaffService) CreateReceptionist(ctx context.Context, req *models.StaffRequest) (*StaffMember, error) {
	return s.create(ctx, req, models.RoleReceptionist)
}

func (s *StaffService) create(ctx context.Context, req *models.StaffRequest, role models.Role) (*StaffMember, error) {
	clinic, ok := tenant.ClinicFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("failed to create %s: %w", role, repository.ErrNoTenant)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, invalid("username is required")
	}

	member := &StaffMember{
		User: models.User{
			Username:  username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Role:      role,
			IsActive:  true,
		},
	}

	err := s.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.repos.Clinic.LockTx(ctx, tx, clinic.ID)
		if err != nil {
			return err
		}
		users := s.repos.Users.WithDB(tx)

		resource := ResourceReceptionists
		if role == models.RoleDoctor {
			resource = ResourceDoctors
		}
		if err := checkCapacity(ctx, locked, resource, func(ctx context.Context) (int64, error) {
			return users.Count(ctx, withRole(role))
		}); err != nil {
			return err
		}

		if err := users.Create(ctx, &member.User); err != nil {
			return err
		}
		if role != models.RoleDoctor {
			return nil
		}

		member.Doctor = &models.Doctor{
			UserID:         member.User.ID,
			Specialization: req.Specialization,
			LicenseNumber:  req.LicenseNumber,
		}
		return s.repos.Doctors.WithDB(tx).Create(ctx, member.Doctor)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, invalid("username %q is already in use", username)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("clinic_id", clinic.ID.String()).
		Str("username", username).
		Str("role", string(role)).
		Msg("Staff account created")
	return member, nil
}

// List returns the current clinic's staff accounts, doctors with their profiles
func (s *StaffService) List(ctx context.Context) ([]StaffMember, error) {
	users, err := s.repos.Users.List(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist}).
			Order("username ASC")
	})
	if err != nil {
		return nil, err
	}

	doctors, err := s.repos.Doctors.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]*models.Doctor, len(doctors))
	for i := range doctors {
		profiles[doctors[i].UserID.String()] = &doctors[i]
	}

	staff := make([]StaffMember, 0, len(users))
	for _, u := range users {
		staff = append(staff, StaffMember{User: u, Doctor: profiles[u.ID.String()]})
	}
	return staff, nil
}

// DoctorForUser returns the doctor profile of user in the current clinic
func (s *StaffService) DoctorForUser(ctx context.Context, user *models.Principal) (*models.Doctor, error) {
	if !user.Authenticated() {
		return nil, invalid("a signed-in doctor is required")
	}
	doctors, err := s.repos.Doctors.List(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", user.UserID).Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(doctors) == 0 {
		return nil, fmt.Errorf("doctor profile for %s: %w", user.Username, repository.ErrNotFound)
	}
	return &doctors[0], nil
}
