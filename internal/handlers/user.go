package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/prathvinaik206-create/farmdirect/internal/auth"
	"github.com/prathvinaik206-create/farmdirect/internal/models"
	"github.com/prathvinaik206-create/farmdirect/internal/services"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "username", "create user")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "user", "log in")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// UpdateUser must run behind middleware.RequireToken.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	id := mux.Vars(r)["id"]
	var update models.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.UserID, id, update)
	if err != nil {
		respondServiceError(w, err, "user", "update user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// DeleteUser must run behind middleware.RequireToken.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.service.DeleteUser(r.Context(), claims.UserID, id); err != nil {
		respondServiceError(w, err, "user", "delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
