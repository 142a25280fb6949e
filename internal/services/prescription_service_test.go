package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/services"
	"github.com/otcheredev/clinichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrescriptionService(e *env) *services.PrescriptionService {
	return services.NewPrescriptionService(e.repos, services.NewStaffService(e.repos))
}

func TestPrescriptionService_Flow(t *testing.T) {
	e := newEnv(t)
	svc := newPrescriptionService(e)
	drUser, doctor := testutil.Doctor(t, e.db, e.north, "dr-north")
	patient := testutil.Patient(t, e.db, e.north, "Jane Doe")
	ctx := as(e.north, drUser)

	detail, err := svc.Create(ctx, patient.ID, &models.PrescriptionRequest{Diagnosis: "Malaria"})
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, detail.DoctorID)
	assert.Equal(t, models.PrescriptionPending, detail.Status)
	assert.Equal(t, e.north.ID, detail.ClinicID)
	require.NotNil(t, detail.Notes)
	assert.Equal(t, e.north.ID, detail.Notes.ClinicID)

	_, err = svc.AddMedicine(ctx, detail.ID, &models.MedicineRequest{MedicineName: "Artemether", Dosage: "80mg"})
	require.NoError(t, err)
	_, err = svc.AddTest(ctx, detail.ID, &models.TestRequest{TestName: "Blood film", TestType: models.TestBlood})
	require.NoError(t, err)

	got, err := svc.Get(ctx, detail.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "Malaria", got.Notes.Diagnosis)
	require.Len(t, got.Medicines, 1)
	assert.Equal(t, "Artemether", got.Medicines[0].MedicineName)
	require.Len(t, got.Tests, 1)
	assert.Equal(t, models.TestBlood, got.Tests[0].TestType)

	_, err = svc.Get(as(e.south, nil), detail.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPrescriptionService_Rejects(t *testing.T) {
	e := newEnv(t)
	svc := newPrescriptionService(e)
	drUser, _ := testutil.Doctor(t, e.db, e.north, "dr-north")
	desk := testutil.User(t, e.db, e.north, "desk-north", models.RoleReceptionist)
	foreign := testutil.Patient(t, e.db, e.south, "Jane Doe")
	patient := testutil.Patient(t, e.db, e.north, "John Roe")
	ctx := as(e.north, drUser)

	_, err := svc.Create(ctx, foreign.ID, &models.PrescriptionRequest{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// only accounts with a doctor profile can prescribe
	_, err = svc.Create(as(e.north, desk), patient.ID, &models.PrescriptionRequest{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	detail, err := svc.Create(ctx, patient.ID, &models.PrescriptionRequest{})
	require.NoError(t, err)

	_, err = svc.AddMedicine(ctx, detail.ID, &models.MedicineRequest{})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.AddTest(ctx, detail.ID, &models.TestRequest{TestName: "Scan", TestType: "mri"})
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = svc.AddMedicine(ctx, uuid.New(), &models.MedicineRequest{MedicineName: "Paracetamol"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPrescriptionService_ListMine(t *testing.T) {
	e := newEnv(t)
	svc := newPrescriptionService(e)
	drA, _ := testutil.Doctor(t, e.db, e.north, "dr-a")
	drB, _ := testutil.Doctor(t, e.db, e.north, "dr-b")
	admin := testutil.User(t, e.db, e.north, "admin-north", models.RoleAdmin)
	patient := testutil.Patient(t, e.db, e.north, "Jane Doe")

	_, err := svc.Create(as(e.north, drA), patient.ID, &models.PrescriptionRequest{})
	require.NoError(t, err)
	_, err = svc.Create(as(e.north, drB), patient.ID, &models.PrescriptionRequest{})
	require.NoError(t, err)

	mine, err := svc.ListMine(as(e.north, drA))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListMine(as(e.north, admin))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := svc.ListMine(as(e.south, admin))
	require.NoError(t, err)
	assert.Empty(t, none)
}
