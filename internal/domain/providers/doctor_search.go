package providers

import (
	"context"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

// DoctorSearchProvider indexes the doctor directory and answers filtered searches.
type DoctorSearchProvider interface {
	// Index replaces or inserts the given doctors
	Index(ctx context.Context, doctors []entities.Doctor) error

	// Search returns the ids of matching doctors in relevance order
	Search(ctx context.Context, filter entities.DoctorFilter) ([]int, error)
}
