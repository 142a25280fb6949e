package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otcheredev/clinichub/internal/auth"
	"github.com/otcheredev/clinichub/internal/middleware"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/services"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds what the HTTP surface is built from
type RouterConfig struct {
	Repos    *repository.Repositories
	Resolver *tenant.Resolver
	Tokens   *auth.TokenService
	// Cache is reported by /health when set
	Cache    Pinger
	CORS     cors.Options
	Metrics  bool
}

// NewRouter wires services, handlers and middleware into one router
func NewRouter(cfg RouterConfig) http.Handler {
	staffService := services.NewStaffService(cfg.Repos)
	patientService := services.NewPatientService(cfg.Repos)

	healthHandler := NewHealthHandler(cfg.Repos.DB, cfg.Cache)
	clinicHandler := NewClinicHandler(services.NewClinicService(cfg.Repos))
	patientHandler := NewPatientHandler(patientService)
	doctorHandler := NewDoctorHandler(
		services.NewPrescriptionService(cfg.Repos, staffService),
		patientService,
		services.NewAdmissionService(cfg.Repos, staffService),
	)
	staffHandler := NewStaffHandler(staffService)
	platformHandler := NewPlatformHandler(services.NewPlatformService(cfg.Repos))

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))
	r.Use(cors.Handler(cfg.CORS))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Tokens.Authenticate)

		// Routes outside /clinic/{clinic_slug} resolve from the signed-in user only
		r.Group(func(r chi.Router) {
			r.Use(tenant.Middleware(cfg.Resolver, tenant.WithSlugFunc(tenant.NoSlug)))

			r.Post("/register-clinic", clinicHandler.Register)
			r.With(tenant.RequireTenant(nil)).Get("/dashboard", clinicHandler.Dashboard)
			r.With(
				auth.RequireRole(models.RoleReceptionist, models.RoleAdmin),
				tenant.RequireTenant(writeError),
			).Get("/reception/patient-search", patientHandler.Search)

			r.Route("/superadmin", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleSuperAdmin))

				r.Get("/dashboard", platformHandler.Dashboard)
				r.Route("/clinic/{clinic_id}", func(r chi.Router) {
					r.Get("/patients", platformHandler.ClinicPatients)
					r.Get("/doctors", platformHandler.ClinicDoctors)
					r.Get("/prescriptions", platformHandler.ClinicPrescriptions)
					r.Patch("/status", platformHandler.SetStatus)
					r.Delete("/", platformHandler.DeleteClinic)
				})
			})
		})

		r.Route("/clinic/{"+tenant.SlugParam+"}", func(r chi.Router) {
			r.Use(tenant.Middleware(cfg.Resolver))
			r.Use(tenant.RequireTenant(writeError))
			r.Use(tenant.RequireMembership(writeError))

			r.Route("/reception", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleReceptionist, models.RoleAdmin))

				r.Get("/patients", patientHandler.List)
				r.Post("/patients", patientHandler.Create)
				r.Get("/patients/{patient_id}", patientHandler.Get)
				r.Delete("/patients/{patient_id}", patientHandler.Delete)
				r.Get("/patient-search", patientHandler.Search)
				r.Post("/patient-checkin", patientHandler.CheckIn)
				r.Get("/checkin-dashboard", patientHandler.CheckInDashboard)
			})

			r.Route("/doctor", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleDoctor, models.RoleAdmin))

				r.Get("/prescriptions", doctorHandler.ListPrescriptions)
				r.Get("/prescriptions/{prescription_id}", doctorHandler.GetPrescription)
				r.Post("/prescriptions/{prescription_id}/medicines", doctorHandler.AddMedicine)
				r.Post("/prescriptions/{prescription_id}/tests", doctorHandler.AddTest)
				r.Post("/patients/{patient_id}/prescriptions", doctorHandler.CreatePrescription)
				r.Get("/patients/{patient_id}/history", doctorHandler.History)
				r.Post("/patients/{patient_id}/admissions", doctorHandler.Admit)
				r.Get("/admissions", doctorHandler.ListAdmissions)
				r.Post("/admissions/{admission_id}/treatments", doctorHandler.AddTreatment)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleAdmin))

				r.Post("/doctors", staffHandler.CreateDoctor)
				r.Post("/receptionists", staffHandler.CreateReceptionist)
				r.Get("/staff", staffHandler.List)
			})
		})
	})

	return r
}
