package handlers

import (
	"net/http"
	"strconv"

	"github.com/jsimpson73/test-med-app/internal/application/services"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
)

type reportView struct {
	entities.MedicalReport
	StatusColor  string `json:"status_color"`
	DownloadName string `json:"download_name"`
}

func newReportView(report entities.MedicalReport) reportView {
	return reportView{
		MedicalReport: report,
		StatusColor:   services.StatusColor(report.Status),
		DownloadName:  services.DownloadName(report),
	}
}

// ReportHandler serves the mock medical reports to signed-in users.
type ReportHandler struct {
	reports  *services.ReportService
	sessions *Sessions
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, sessions *Sessions) *ReportHandler {
	return &ReportHandler{reports: reports, sessions: sessions}
}

func (h *ReportHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.sessions.Resolve(w, r).CurrentUser() == nil {
		respondWithAppError(w, r, apperrors.NewNotAuthenticatedError())
		return false
	}
	return true
}

// ListReports handles GET /api/reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	reports := h.reports.List()
	views := make([]reportView, 0, len(reports))
	for _, report := range reports {
		views = append(views, newReportView(report))
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reports": views,
	})
}

// GetReport handles GET /api/reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	report, err := h.reports.Get(id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newReportView(*report))
}
