package handlers

import (
	"net/http"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

// ReviewHandler handles doctor reviews for the current session.
type ReviewHandler struct {
	sessions *Sessions
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(sessions *Sessions) *ReviewHandler {
	return &ReviewHandler{sessions: sessions}
}

// ListReviews handles GET /api/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	store := h.sessions.Resolve(w, r)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": store.Reviews(),
	})
}

// SubmitReview handles POST /api/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req entities.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.sessions.Resolve(w, r).AddReview(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// Summary handles GET /api/reviews/summary
func (h *ReviewHandler) Summary(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sessions.Resolve(w, r).ReviewSummary())
}
