package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/services"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: chimiddleware.GetReqID(r.Context())})
}

// writeError maps service and repository errors to HTTP statuses
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeMessage(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, r, http.StatusNotFound, "Not found")
	case errors.Is(err, repository.ErrNoTenant), errors.Is(err, tenant.ErrNoTenantInContext):
		writeMessage(w, r, http.StatusNotFound, "Clinic not found")
	case errors.Is(err, repository.ErrCrossTenant), errors.Is(err, tenant.ErrForeignClinic):
		writeMessage(w, r, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrCapacityExceeded), errors.Is(err, services.ErrSlugTaken):
		writeMessage(w, r, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("Request failed")
		writeMessage(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
