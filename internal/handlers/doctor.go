package handlers

import (
	"net/http"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/services"
)

// DoctorHandler serves consultation and inpatient endpoints
type DoctorHandler struct {
	prescriptions *services.PrescriptionService
	patients      *services.PatientService
	admissions    *services.AdmissionService
}

func NewDoctorHandler(
	prescriptions *services.PrescriptionService,
	patients *services.PatientService,
	admissions *services.AdmissionService,
) *DoctorHandler {
	return &DoctorHandler{
		prescriptions: prescriptions,
		patients:      patients,
		admissions:    admissions,
	}
}

// ListPrescriptions returns the signed-in doctor's prescriptions
func (h *DoctorHandler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptions.ListMine(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptions)
}

// CreatePrescription opens a prescription for a patient
func (h *DoctorHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidParam(w, r, "patient_id")
	if !ok {
		return
	}
	var req models.PrescriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := h.prescriptions.Create(r.Context(), patientID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

// GetPrescription returns a prescription with its lines
func (h *DoctorHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "prescription_id")
	if !ok {
		return
	}

	detail, err := h.prescriptions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// AddMedicine adds a drug line to a prescription
func (h *DoctorHandler) AddMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "prescription_id")
	if !ok {
		return
	}
	var req models.MedicineRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	medicine, err := h.prescriptions.AddMedicine(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, medicine)
}

// AddTest orders a test on a prescription
func (h *DoctorHandler) AddTest(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "prescription_id")
	if !ok {
		return
	}
	var req models.TestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	test, err := h.prescriptions.AddTest(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, test)
}

// History returns a patient's records
func (h *DoctorHandler) History(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidParam(w, r, "patient_id")
	if !ok {
		return
	}

	history, err := h.patients.History(r.Context(), patientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// Admit admits a patient
func (h *DoctorHandler) Admit(w http.ResponseWriter, r *http.Request) {
	patientID, ok := uuidParam(w, r, "patient_id")
	if !ok {
		return
	}
	var req models.AdmissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	admission, err := h.admissions.Admit(r.Context(), patientID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, admission)
}

// ListAdmissions returns admissions, filtered by ?status=
func (h *DoctorHandler) ListAdmissions(w http.ResponseWriter, r *http.Request) {
	status := models.AdmissionStatus(r.URL.Query().Get("status"))

	admissions, err := h.admissions.List(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, admissions)
}

// AddTreatment logs a treatment on an admission
func (h *DoctorHandler) AddTreatment(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "admission_id")
	if !ok {
		return
	}
	var req models.TreatmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.admissions.AddTreatment(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
