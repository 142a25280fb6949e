package handlers

import (
	"net/http"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/services"
)

// PlatformHandler serves the super admin endpoints
type PlatformHandler struct {
	platform *services.PlatformService
}

func NewPlatformHandler(platform *services.PlatformService) *PlatformHandler {
	return &PlatformHandler{platform: platform}
}

// Dashboard returns totals across all clinics
func (h *PlatformHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.platform.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// ClinicPatients lists one clinic's patients
func (h *PlatformHandler) ClinicPatients(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "clinic_id")
	if !ok {
		return
	}
	patients, err := h.platform.ClinicPatients(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// ClinicDoctors lists one clinic's doctors
func (h *PlatformHandler) ClinicDoctors(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "clinic_id")
	if !ok {
		return
	}
	doctors, err := h.platform.ClinicDoctors(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// ClinicPrescriptions lists one clinic's prescriptions
func (h *PlatformHandler) ClinicPrescriptions(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "clinic_id")
	if !ok {
		return
	}
	prescriptions, err := h.platform.ClinicPrescriptions(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptions)
}

// SetStatus activates or deactivates a clinic
func (h *PlatformHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "clinic_id")
	if !ok {
		return
	}
	var req models.ClinicStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	clinic, err := h.platform.SetClinicActive(r.Context(), id, req.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clinic)
}

// DeleteClinic removes a clinic and its data
func (h *PlatformHandler) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "clinic_id")
	if !ok {
		return
	}
	if err := h.platform.DeleteClinic(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
