package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jsimpson73/test-med-app/internal/catalog"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/jsimpson73/test-med-app/internal/infrastructure/observability"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
)

// DirectoryService serves the doctor directory and health content.
type DirectoryService struct {
	doctors []entities.Doctor
	search  providers.DoctorSearchProvider
	metrics *observability.Metrics
}

// NewDirectoryService creates a directory over the static catalog.
// search may be nil, in which case filtering happens in memory.
func NewDirectoryService(search providers.DoctorSearchProvider, metrics *observability.Metrics) *DirectoryService {
	return &DirectoryService{
		doctors: catalog.Doctors(),
		search:  search,
		metrics: metrics,
	}
}

// Specialties returns the specialty filter options
func (s *DirectoryService) Specialties() []string {
	return catalog.Specialties()
}

// HealthTips returns the health tip articles
func (s *DirectoryService) HealthTips() []entities.Article {
	return catalog.HealthTips()
}

// CheckupTopics returns the self-checkup articles
func (s *DirectoryService) CheckupTopics() []entities.Article {
	return catalog.CheckupTopics()
}

// Doctor returns one doctor by id
func (s *DirectoryService) Doctor(_ context.Context, id int) (*entities.Doctor, error) {
	d, ok := catalog.DoctorByID(id)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor %d not found", id))
	}
	return &d, nil
}

// Doctors filters the directory. Specialty matches the whole specialty name
// case-insensitively; Search matches a substring of name or specialty.
func (s *DirectoryService) Doctors(ctx context.Context, filter entities.DoctorFilter) ([]entities.Doctor, error) {
	filter.Specialty = strings.TrimSpace(filter.Specialty)
	filter.Search = strings.TrimSpace(filter.Search)

	if filter.Specialty == "" && filter.Search == "" {
		return catalog.Doctors(), nil
	}

	if s.search != nil {
		ctx, span := observability.StartSpan(ctx, "DirectoryService.Doctors")
		defer span.End()

		ids, err := s.search.Search(ctx, filter)
		if err == nil {
			return s.byIDs(ids), nil
		}
		observability.RecordError(span, err)
		observability.RecordSearchFallback(ctx, s.metrics)
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("specialty", filter.Specialty).
			Str("q", filter.Search).
			Msg("doctor search index failed, filtering in memory")
	}

	return FilterDoctors(catalog.Doctors(), filter), nil
}

// IndexCatalog pushes the directory into the search provider, if any
func (s *DirectoryService) IndexCatalog(ctx context.Context) error {
	if s.search == nil {
		return nil
	}
	return s.search.Index(ctx, catalog.Doctors())
}

func (s *DirectoryService) byIDs(ids []int) []entities.Doctor {
	out := make([]entities.Doctor, 0, len(ids))
	for _, id := range ids {
		if d, ok := catalog.DoctorByID(id); ok {
			out = append(out, d)
		}
	}
	return out
}

// FilterDoctors applies filter to doctors in memory, preserving order
func FilterDoctors(doctors []entities.Doctor, filter entities.DoctorFilter) []entities.Doctor {
	out := make([]entities.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if filter.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}
