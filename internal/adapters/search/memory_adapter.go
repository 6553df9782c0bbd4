package search

import (
	"context"
	"sync"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
)

// MemoryAdapter is an in-process doctor index for tests and single-node setups.
type MemoryAdapter struct {
	mu      sync.RWMutex
	doctors []entities.Doctor
}

var _ providers.DoctorSearchProvider = (*MemoryAdapter)(nil)

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{}
}

// Index replaces entries with the same id and appends new ones
func (a *MemoryAdapter) Index(_ context.Context, doctors []entities.Doctor) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, d := range doctors {
		replaced := false
		for i := range a.doctors {
			if a.doctors[i].ID == d.ID {
				a.doctors[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			a.doctors = append(a.doctors, d)
		}
	}
	return nil
}

func (a *MemoryAdapter) Search(_ context.Context, filter entities.DoctorFilter) ([]int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := []int{}
	for _, d := range a.doctors {
		if filter.Matches(d) {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}
