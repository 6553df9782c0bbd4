package handlers

import (
	"net/http"
	"strconv"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

type appointmentResponse struct {
	Appointment *entities.Appointment `json:"appointment"`
	Redirect    string                `json:"redirect,omitempty"`
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	sessions *Sessions
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(sessions *Sessions) *AppointmentHandler {
	return &AppointmentHandler{sessions: sessions}
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	store := h.sessions.Resolve(w, r)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": store.Appointments(),
	})
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req entities.AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.sessions.Resolve(w, r).AddAppointment(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, appointmentResponse{Appointment: appt})
}

// BookInstant handles POST /api/appointments/instant
func (h *AppointmentHandler) BookInstant(w http.ResponseWriter, r *http.Request) {
	var req entities.AppointmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	appt, err := h.sessions.Resolve(w, r).BookInstant(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, appointmentResponse{Appointment: appt})
}

// CancelAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid appointment ID")
		return
	}

	appt, err := h.sessions.Resolve(w, r).CancelAppointment(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, appointmentResponse{Appointment: appt, Redirect: "/appointments"})
}
