package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

// DirectoryService is the read side of the doctor directory and content catalog.
type DirectoryService interface {
	Specialties() []string
	HealthTips() []entities.Article
	CheckupTopics() []entities.Article
	Doctor(ctx context.Context, id int) (*entities.Doctor, error)
	Doctors(ctx context.Context, filter entities.DoctorFilter) ([]entities.Doctor, error)
}

// DirectoryHandler serves doctors, specialties and static health content.
type DirectoryHandler struct {
	directory DirectoryService
	sessions  *Sessions
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory DirectoryService, sessions *Sessions) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, sessions: sessions}
}

// ListDoctors handles GET /api/doctors?specialty=&q=
func (h *DirectoryHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := entities.DoctorFilter{
		Specialty: query.Get("specialty"),
		Search:    query.Get("q"),
	}

	doctors, err := h.directory.Doctors(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// GetDoctor handles GET /api/doctors/{id}
func (h *DirectoryHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := doctorID(w, r)
	if !ok {
		return
	}

	doctor, err := h.directory.Doctor(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doctor)
}

// AvailableSlots handles GET /api/doctors/{id}/slots?date=
func (h *DirectoryHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := doctorID(w, r)
	if !ok {
		return
	}
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date query parameter is required")
		return
	}

	slots, err := h.sessions.Resolve(w, r).AvailableSlots(r.Context(), id, date)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctor_id": id,
		"date":      date,
		"slots":     slots,
	})
}

// ListSpecialties handles GET /api/specialties
func (h *DirectoryHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"specialties": h.directory.Specialties(),
	})
}

// ListHealthTips handles GET /api/health-tips
func (h *DirectoryHandler) ListHealthTips(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tips": h.directory.HealthTips(),
	})
}

// ListCheckupTopics handles GET /api/self-checkup
func (h *DirectoryHandler) ListCheckupTopics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"topics": h.directory.CheckupTopics(),
	})
}

func doctorID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid doctor ID")
		return 0, false
	}
	return id, true
}
