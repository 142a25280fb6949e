package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/otcheredev/clinichub/internal/auth"
	"github.com/otcheredev/clinichub/internal/handlers"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/otcheredev/clinichub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type server struct {
	t      *testing.T
	db     *gorm.DB
	tokens *auth.TokenService
	router http.Handler
	north  *models.Clinic
	south  *models.Clinic
}

func newServer(t *testing.T) *server {
	t.Helper()

	db := testutil.NewDB(t)
	repos := repository.New(db, nil, 0)
	tokens := auth.NewTokenService("0123456789abcdef0123456789abcdef", "clinichub-test", time.Hour)

	return &server{
		t:      t,
		db:     db,
		tokens: tokens,
		router: handlers.NewRouter(handlers.RouterConfig{
			Repos:    repos,
			Resolver: tenant.NewResolver(repos.Clinic),
			Tokens:   tokens,
			Metrics:  true,
		}),
		north: testutil.Clinic(t, db, "north-clinic"),
		south: testutil.Clinic(t, db, "south-clinic"),
	}
}

// do sends a request as user; a nil user is anonymous
func (s *server) do(method, path string, user *models.User, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := s.tokens.Issue(user)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_JaneDoeSeenOnlyByHerClinic(t *testing.T) {
	s := newServer(t)
	northDesk := testutil.User(t, s.db, s.north, "desk-north", models.RoleReceptionist)
	southDesk := testutil.User(t, s.db, s.south, "desk-south", models.RoleReceptionist)

	rec := s.do(http.MethodPost, "/clinic/north-clinic/reception/patients", northDesk, models.PatientRequest{Name: "Jane Doe", Age: 34})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	northJane := decode[models.Patient](t, rec)
	assert.Equal(t, "PAT-000001", northJane.PatientCode)

	rec = s.do(http.MethodPost, "/clinic/south-clinic/reception/patients", southDesk, models.PatientRequest{Name: "Jane Doe", Age: 61})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	southJane := decode[models.Patient](t, rec)

	rec = s.do(http.MethodGet, "/clinic/north-clinic/reception/patients", northDesk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	patients := decode[[]models.Patient](t, rec)
	require.Len(t, patients, 1)
	assert.Equal(t, northJane.ID, patients[0].ID)
	assert.Equal(t, s.north.ID, patients[0].ClinicID)

	rec = s.do(http.MethodGet, "/clinic/north-clinic/reception/patients/"+southJane.ID.String(), northDesk, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/reception/patient-search?q=jane", southDesk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]models.Patient](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, southJane.ID, found[0].ID)
}

func TestRouter_TenantGuards(t *testing.T) {
	s := newServer(t)
	northDesk := testutil.User(t, s.db, s.north, "desk-north", models.RoleReceptionist)
	northDoctor, _ := testutil.Doctor(t, s.db, s.north, "dr-north")

	tests := []struct {
		name   string
		path   string
		user   *models.User
		status int
	}{
		{"own clinic", "/clinic/north-clinic/reception/patients", northDesk, http.StatusOK},
		{"unknown slug fails closed", "/clinic/nonexistent/reception/patients", northDesk, http.StatusNotFound},
		{"foreign clinic", "/clinic/south-clinic/reception/patients", northDesk, http.StatusForbidden},
		{"anonymous", "/clinic/north-clinic/reception/patients", nil, http.StatusUnauthorized},
		{"wrong role", "/clinic/north-clinic/admin/staff", northDesk, http.StatusForbidden},
		{"doctor routes", "/clinic/north-clinic/doctor/prescriptions", northDoctor, http.StatusOK},
		{"receptionist on platform routes", "/superadmin/dashboard", northDesk, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodGet, tt.path, tt.user, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_UnknownSlugBody(t *testing.T) {
	s := newServer(t)
	desk := testutil.User(t, s.db, s.north, "desk-north", models.RoleReceptionist)
	testutil.Patient(t, s.db, s.north, "Jane Doe")

	rec := s.do(http.MethodGet, "/clinic/nonexistent/reception/patients", desk, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Jane Doe")
	assert.Contains(t, rec.Body.String(), "Clinic not found")
}

func TestRouter_Dashboard(t *testing.T) {
	s := newServer(t)
	admin := testutil.User(t, s.db, s.north, "admin-north", models.RoleAdmin)
	testutil.Patient(t, s.db, s.north, "Jane Doe")

	rec := s.do(http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dash := decode[models.ClinicDashboard](t, rec)
	assert.Equal(t, s.north.ID, dash.Clinic.ID)
	assert.EqualValues(t, 1, dash.Patients)
}

func TestRouter_RegisterClinic(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/register-clinic", nil, models.ClinicRegistration{
		Name:          "Lakeside Clinic",
		AdminUsername: "lakeside-admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		Clinic models.Clinic `json:"clinic"`
		Admin  models.User   `json:"admin"`
		Path   string        `json:"path"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "lakeside-clinic", body.Clinic.Slug)
	assert.Equal(t, "/clinic/lakeside-clinic", body.Path)

	// the new admin can work in the new clinic straight away
	rec = s.do(http.MethodGet, body.Path+"/admin/staff", &body.Admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/register-clinic", nil, models.ClinicRegistration{
		Name:          "Lakeside Clinic",
		Slug:          "lakeside-clinic",
		AdminUsername: "other-admin",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/register-clinic", nil, models.ClinicRegistration{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SuperAdmin(t *testing.T) {
	s := newServer(t)
	operator := testutil.User(t, s.db, nil, "operator", models.RoleSuperAdmin)
	testutil.Patient(t, s.db, s.north, "Jane Doe")
	testutil.Patient(t, s.db, s.south, "Jane Doe")

	rec := s.do(http.MethodGet, "/superadmin/dashboard", operator, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dash := decode[models.PlatformDashboard](t, rec)
	assert.Equal(t, 2, dash.TotalClinics)
	assert.EqualValues(t, 2, dash.TotalPatients)

	rec = s.do(http.MethodGet, "/superadmin/clinic/"+s.south.ID.String()+"/patients", operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	patients := decode[[]models.Patient](t, rec)
	require.Len(t, patients, 1)
	assert.Equal(t, s.south.ID, patients[0].ClinicID)

	rec = s.do(http.MethodGet, "/superadmin/clinic/not-a-uuid/patients", operator, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/superadmin/clinic/"+s.south.ID.String()+"/status", operator, models.ClinicStatusRequest{IsActive: false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodDelete, "/superadmin/clinic/"+s.south.ID.String()+"/", operator, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/superadmin/dashboard", operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dash = decode[models.PlatformDashboard](t, rec)
	assert.Equal(t, 1, dash.TotalClinics)
}

func TestRouter_Health(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
