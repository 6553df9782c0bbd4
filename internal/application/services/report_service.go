package services

import (
	"fmt"
	"regexp"

	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ReportService serves the mock medical reports.
type ReportService struct {
	reports []entities.MedicalReport
}

func NewReportService() *ReportService {
	return &ReportService{reports: catalog.Reports()}
}

// List returns every report, newest first
func (s *ReportService) List() []entities.MedicalReport {
	out := make([]entities.MedicalReport, len(s.reports))
	copy(out, s.reports)
	return out
}

// Get returns a report by id
func (s *ReportService) Get(id int) (*entities.MedicalReport, error) {
	for _, r := range s.reports {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("report %d not found", id))
}

// DownloadName is the suggested file name for a report download
func DownloadName(report entities.MedicalReport) string {
	return whitespaceRun.ReplaceAllString(report.Title, "_") + ".pdf"
}

// StatusColor maps a report status to its badge color
func StatusColor(status string) string {
	switch status {
	case "Normal", "Good":
		return "#28a745"
	case "Borderline":
		return "#ffc107"
	case "Abnormal", "Critical":
		return "#dc3545"
	default:
		return "#6c757d"
	}
}
