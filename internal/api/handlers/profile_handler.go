package handlers

import (
	"net/http"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
)

// ProfileHandler serves the profile screens.
type ProfileHandler struct {
	sessions *Sessions
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(sessions *Sessions) *ProfileHandler {
	return &ProfileHandler{sessions: sessions}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.Resolve(w, r).CurrentUser()
	if user == nil {
		respondWithAppError(w, r, apperrors.NewNotAuthenticatedError())
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update entities.ProfileUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	user, err := h.sessions.Resolve(w, r).UpdateProfile(r.Context(), update)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
