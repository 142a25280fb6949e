// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/database"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private, migrated in-memory SQLite database that is closed
// when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(dsn), "silent")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// Clinic inserts an active clinic with the given slug
func Clinic(t testing.TB, db *gorm.DB, slug string) *models.Clinic {
	t.Helper()

	clinic := &models.Clinic{
		Name:               slug,
		Slug:               slug,
		IsActive:           true,
		SubscriptionStatus: models.SubscriptionActive,
	}
	require.NoError(t, db.Create(clinic).Error)
	return clinic
}

// User inserts an account. clinic may be nil for platform operators.
func User(t testing.TB, db *gorm.DB, clinic *models.Clinic, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Role:     role,
		IsActive: true,
	}
	if clinic != nil {
		user.SetOwningClinic(clinic.ID)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Doctor inserts a doctor account together with its profile
func Doctor(t testing.TB, db *gorm.DB, clinic *models.Clinic, username string) (*models.User, *models.Doctor) {
	t.Helper()

	user := User(t, db, clinic, username, models.RoleDoctor)
	doctor := &models.Doctor{UserID: user.ID, Specialization: "General"}
	doctor.SetOwningClinic(clinic.ID)
	require.NoError(t, db.Create(doctor).Error)
	return user, doctor
}

// Patient inserts a patient owned by clinic
func Patient(t testing.TB, db *gorm.DB, clinic *models.Clinic, name string) *models.Patient {
	t.Helper()

	patient := &models.Patient{
		PatientCode: "TST-" + uuid.NewString()[:8],
		Name:        name,
		Age:         40,
		Status:      models.PatientActive,
	}
	patient.SetOwningClinic(clinic.ID)
	require.NoError(t, db.Create(patient).Error)
	return patient
}
