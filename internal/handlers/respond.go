package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/prathvinaik206-create/farmdirect/internal/services"
	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respondJSON: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

// respondServiceError maps service and storage errors to a status code.
// resource names the record in not-found and conflict messages; action is
// used in the 500 message.
func respondServiceError(w http.ResponseWriter, err error, resource, action string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		respondError(w, http.StatusForbidden, "not allowed to modify this "+resource)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		respondError(w, http.StatusConflict, resource+" already exists")
	default:
		log.Printf("Failed to %s: %v", action, err)
		respondError(w, http.StatusInternalServerError, "failed to "+action)
	}
}
