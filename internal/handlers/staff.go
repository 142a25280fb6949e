package handlers

import (
	"net/http"

	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/services"
)

type StaffHandler struct {
	staff *services.StaffService
}

func NewStaffHandler(staff *services.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

func (h *StaffHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req models.StaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	member, err := h.staff.CreateDoctor(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *StaffHandler) CreateReceptionist(w http.ResponseWriter, r *http.Request) {
	var req models.StaffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	member, err := h.staff.CreateReceptionist(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staff.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}
