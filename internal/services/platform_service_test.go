package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/services"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/otcheredev/clinichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operatorContext(t *testing.T, e *env) (context.Context, *models.User) {
	t.Helper()
	op := testutil.User(t, e.db, nil, "operator", models.RoleSuperAdmin)
	return tenant.WithClinic(context.Background(), nil, op.Principal()), op
}

func TestPlatformService_Dashboard(t *testing.T) {
	e := newEnv(t)
	svc := services.NewPlatformService(e.repos)
	ctx, op := operatorContext(t, e)

	testutil.Patient(t, e.db, e.north, "Jane Doe")
	testutil.Patient(t, e.db, e.north, "John Roe")
	testutil.Patient(t, e.db, e.south, "Jane Doe")
	testutil.Doctor(t, e.db, e.south, "dr-south")
	_, err := e.repos.Clinic.SetActive(ctx, e.south.ID, false)
	require.NoError(t, err)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalClinics)
	assert.Equal(t, 1, dash.ActiveClinics)
	assert.EqualValues(t, 3, dash.TotalPatients)
	assert.EqualValues(t, 1, dash.TotalDoctors)
	assert.EqualValues(t, 0, dash.TotalPrescriptions)

	byID := map[uuid.UUID]models.ClinicSummary{}
	for _, c := range dash.Clinics {
		byID[c.Clinic.ID] = c
	}
	assert.EqualValues(t, 2, byID[e.north.ID].Patients)
	assert.EqualValues(t, 0, byID[e.north.ID].Doctors)
	assert.EqualValues(t, 1, byID[e.south.ID].Patients)
	assert.EqualValues(t, 1, byID[e.south.ID].Doctors)

	// one cross-clinic read per counted entity
	logs, err := e.repos.Audit.GetByAction(ctx, models.AuditCrossTenantQuery, 10)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	for _, l := range logs {
		assert.Nil(t, l.ClinicID)
		assert.Equal(t, repository.MethodQueryAllTenants, l.Method)
		require.NotNil(t, l.UserID)
		assert.Equal(t, op.ID, *l.UserID)
	}
}

func TestPlatformService_ClinicListings(t *testing.T) {
	e := newEnv(t)
	svc := services.NewPlatformService(e.repos)
	ctx, _ := operatorContext(t, e)

	testutil.Patient(t, e.db, e.north, "Jane Doe")
	south := testutil.Patient(t, e.db, e.south, "Jane Doe")
	testutil.Doctor(t, e.db, e.south, "dr-south")

	patients, err := svc.ClinicPatients(ctx, e.south.ID)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, south.ID, patients[0].ID)

	doctors, err := svc.ClinicDoctors(ctx, e.south.ID)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)

	prescriptions, err := svc.ClinicPrescriptions(ctx, e.north.ID)
	require.NoError(t, err)
	assert.Empty(t, prescriptions)

	_, err = svc.ClinicPatients(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	logs, err := e.repos.Audit.GetByClinicID(ctx, e.south.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestPlatformService_SetClinicActive(t *testing.T) {
	e := newEnv(t)
	svc := services.NewPlatformService(e.repos)
	ctx, _ := operatorContext(t, e)

	clinic, err := svc.SetClinicActive(ctx, e.north.ID, false)
	require.NoError(t, err)
	assert.False(t, clinic.IsActive)

	stored, err := e.repos.Clinic.GetByID(ctx, e.north.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	logs, err := e.repos.Audit.GetByAction(ctx, models.AuditClinicStatus, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "is_active=false", logs[0].Detail)

	_, err = svc.SetClinicActive(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlatformService_DeleteClinic(t *testing.T) {
	e := newEnv(t)
	svc := services.NewPlatformService(e.repos)
	ctx, _ := operatorContext(t, e)

	testutil.Patient(t, e.db, e.north, "Jane Doe")
	testutil.Patient(t, e.db, e.south, "Jane Doe")
	testutil.Doctor(t, e.db, e.south, "dr-south")

	require.NoError(t, svc.DeleteClinic(ctx, e.south.ID))

	_, err := e.repos.Clinic.GetByID(ctx, e.south.ID)
	assert.ErrorIs(t, err, tenant.ErrClinicNotFound)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.TotalClinics)
	assert.EqualValues(t, 1, dash.TotalPatients)
	assert.EqualValues(t, 0, dash.TotalDoctors)

	logs, err := e.repos.Audit.GetByAction(ctx, models.AuditClinicDeleted, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "south-clinic", logs[0].Detail)

	assert.ErrorIs(t, svc.DeleteClinic(ctx, e.south.ID), repository.ErrNotFound)
}

func TestPlatformService_SuperAdmin(t *testing.T) {
	e := newEnv(t)
	svc := services.NewPlatformService(e.repos)
	ctx := context.Background()

	user, err := svc.CreateSuperAdmin(ctx, "root", "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
	assert.Nil(t, user.ClinicID)

	found, err := svc.FindUser(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.CreateSuperAdmin(ctx, "root", "")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.CreateSuperAdmin(ctx, "", "")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.FindUser(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// operators are invisible to clinic-scoped reads
	users, err := e.repos.Users.List(as(e.north, nil))
	require.NoError(t, err)
	assert.Empty(t, users)
}
