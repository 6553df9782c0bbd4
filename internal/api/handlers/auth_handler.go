package handlers

import (
	"net/http"
	"time"

	"github.com/jsimpson73/test-med-app/internal/application/services"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User     *entities.User `json:"user"`
	Redirect string         `json:"redirect"`
}

type sessionResponse struct {
	User          *entities.User `json:"user"`
	RoleDisplay   string         `json:"role_display,omitempty"`
	Authenticated bool           `json:"authenticated"`
}

// AuthHandler handles sign-up, login and logout.
type AuthHandler struct {
	sessions *Sessions
	delay    time.Duration
}

// NewAuthHandler creates a new auth handler. delay is applied before every
// register and login attempt.
func NewAuthHandler(sessions *Sessions, delay time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, delay: delay}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reg entities.Registration
	if !decodeJSON(w, r, &reg) {
		return
	}
	store := h.sessions.Resolve(w, r)

	if err := services.SimulateLatency(r.Context(), h.delay); err != nil {
		return
	}

	user, err := store.Register(r.Context(), reg)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, authResponse{User: user, Redirect: "/"})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if !decodeJSON(w, r, &creds) {
		return
	}
	store := h.sessions.Resolve(w, r)

	if err := services.SimulateLatency(r.Context(), h.delay); err != nil {
		return
	}

	user, err := store.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{User: user, Redirect: "/"})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	store := h.sessions.Resolve(w, r)
	if err := store.Logout(r.Context()); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sessionResponse{})
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	store := h.sessions.Resolve(w, r)
	resp := sessionResponse{User: store.CurrentUser()}
	if resp.User != nil {
		resp.RoleDisplay = resp.User.Role.DisplayName()
		resp.Authenticated = true
	}
	respondWithJSON(w, http.StatusOK, resp)
}
