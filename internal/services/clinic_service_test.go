package services_test

import (
	"context"
	"testing"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/services"
	"github.com/otcheredev/clinichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClinicService_Register(t *testing.T) {
	e := newEnv(t)
	svc := services.NewClinicService(e.repos)
	ctx := context.Background()

	clinic, admin, err := svc.Register(ctx, &models.ClinicRegistration{
		Name:          "Sunrise Clinic",
		AdminUsername: "sunrise-admin",
		MaxPatients:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, "sunrise-clinic", clinic.Slug)
	assert.True(t, clinic.IsActive)
	assert.Equal(t, models.SubscriptionTrial, clinic.SubscriptionStatus)
	assert.Equal(t, 100, clinic.MaxPatients)

	assert.Equal(t, models.RoleAdmin, admin.Role)
	require.NotNil(t, admin.ClinicID)
	assert.Equal(t, clinic.ID, *admin.ClinicID)

	// the admin is visible only from inside the new clinic
	users, err := e.repos.Users.List(as(clinic, nil))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "sunrise-admin", users[0].Username)

	users, err = e.repos.Users.List(as(e.north, nil))
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClinicService_RegisterSlugSuffix(t *testing.T) {
	e := newEnv(t)
	svc := services.NewClinicService(e.repos)
	ctx := context.Background()

	second, _, err := svc.Register(ctx, &models.ClinicRegistration{Name: "North Clinic", AdminUsername: "admin-2"})
	require.NoError(t, err)
	assert.Equal(t, "north-clinic-2", second.Slug)

	third, _, err := svc.Register(ctx, &models.ClinicRegistration{Name: "North Clinic", AdminUsername: "admin-3"})
	require.NoError(t, err)
	assert.Equal(t, "north-clinic-3", third.Slug)
}

func TestClinicService_RegisterRejects(t *testing.T) {
	e := newEnv(t)
	svc := services.NewClinicService(e.repos)
	testutil.User(t, e.db, e.north, "taken-admin", models.RoleAdmin)

	tests := []struct {
		name    string
		req     models.ClinicRegistration
		wantErr error
	}{
		{
			name:    "missing name",
			req:     models.ClinicRegistration{AdminUsername: "a"},
			wantErr: services.ErrValidation,
		},
		{
			name:    "missing admin",
			req:     models.ClinicRegistration{Name: "Lakeside"},
			wantErr: services.ErrValidation,
		},
		{
			name:    "negative limit",
			req:     models.ClinicRegistration{Name: "Lakeside", AdminUsername: "a", MaxDoctors: -1},
			wantErr: services.ErrValidation,
		},
		{
			name:    "malformed slug",
			req:     models.ClinicRegistration{Name: "Lakeside", Slug: "Lake Side", AdminUsername: "a"},
			wantErr: services.ErrValidation,
		},
		{
			name:    "explicit slug taken",
			req:     models.ClinicRegistration{Name: "Other", Slug: "south-clinic", AdminUsername: "a"},
			wantErr: services.ErrSlugTaken,
		},
		{
			name:    "admin username taken",
			req:     models.ClinicRegistration{Name: "Lakeside", AdminUsername: "taken-admin"},
			wantErr: services.ErrSlugTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// failed registrations leave no clinic behind
	clinics, err := e.repos.Clinic.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, clinics, 2)
}

func TestClinicService_Dashboard(t *testing.T) {
	e := newEnv(t)
	svc := services.NewClinicService(e.repos)

	testutil.Patient(t, e.db, e.north, "Jane Doe")
	testutil.Patient(t, e.db, e.north, "John Roe")
	testutil.Patient(t, e.db, e.south, "Jane Doe")
	testutil.Doctor(t, e.db, e.north, "dr-north")
	testutil.User(t, e.db, e.north, "desk-north", models.RoleReceptionist)
	testutil.User(t, e.db, e.south, "desk-south", models.RoleReceptionist)

	dash, err := svc.Dashboard(as(e.north, nil))
	require.NoError(t, err)
	assert.Equal(t, e.north.ID, dash.Clinic.ID)
	assert.EqualValues(t, 2, dash.Patients)
	assert.EqualValues(t, 1, dash.Doctors)
	assert.EqualValues(t, 1, dash.Receptionists)
	assert.EqualValues(t, 0, dash.TodayCheckIns)

	_, err = svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, repository.ErrNoTenant)
}
