package handlers

import (
	"net/http"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/services"
)

// PatientHandler serves reception endpoints
type PatientHandler struct {
	patients *services.PatientService
}

func NewPatientHandler(patients *services.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

// List returns the clinic's patients
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// Create registers a patient
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PatientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patient, err := h.patients.Register(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, patient)
}

// Get returns one patient
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "patient_id")
	if !ok {
		return
	}

	patient, err := h.patients.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// Delete removes one patient
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "patient_id")
	if !ok {
		return
	}

	if err := h.patients.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search matches patients by name, phone or code
func (h *PatientHandler) Search(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// CheckIn records a reception visit
func (h *PatientHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	visit, err := h.patients.CheckIn(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, visit)
}

// CheckInDashboard lists today's check-ins
func (h *PatientHandler) CheckInDashboard(w http.ResponseWriter, r *http.Request) {
	visits, err := h.patients.TodayVisits(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visits)
}
