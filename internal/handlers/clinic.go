package handlers

import (
	"net/http"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/services"
)

type ClinicHandler struct {
	clinics *services.ClinicService
}

func NewClinicHandler(clinics *services.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinics: clinics}
}

type registerClinicResponse struct {
	Clinic *models.Clinic `json:"clinic"`
	Admin  *models.User   `json:"admin"`
	Path   string         `json:"path"`
}

// Register handles public clinic sign-up
func (h *ClinicHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.ClinicRegistration
	if !decodeJSON(w, r, &req) {
		return
	}

	clinic, admin, err := h.clinics.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerClinicResponse{
		Clinic: clinic,
		Admin:  admin,
		Path:   "/clinic/" + clinic.Slug,
	})
}

// Dashboard summarises the signed-in user's clinic
func (h *ClinicHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.clinics.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
