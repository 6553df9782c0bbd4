package services

import (
	"context"
	"slices"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/repositories"
)

// AccountDirectory is the single lookup over the immutable seed accounts and
// the mutable registry. Both sources are consulted on every call.
type AccountDirectory struct {
	seed     []entities.User
	registry repositories.UserRegistry
}

// NewAccountDirectory creates a directory over seed and registry
func NewAccountDirectory(seed []entities.User, registry repositories.UserRegistry) *AccountDirectory {
	return &AccountDirectory{
		seed:     slices.Clone(seed),
		registry: registry,
	}
}

// Registry exposes the mutable source
func (d *AccountDirectory) Registry() repositories.UserRegistry {
	return d.registry
}

// IsSeeded reports whether email belongs to a demo account
func (d *AccountDirectory) IsSeeded(email string) bool {
	for _, u := range d.seed {
		if u.SameEmail(email) {
			return true
		}
	}
	return false
}

// EmailTaken reports whether either source already holds email
func (d *AccountDirectory) EmailTaken(ctx context.Context, email string) (bool, error) {
	if d.IsSeeded(email) {
		return true, nil
	}
	u, err := d.registry.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Authenticate finds the account matching email (case-insensitive) and
// password (exact). The returned record still carries the password.
// A miss returns nil with no error.
func (d *AccountDirectory) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	registered, err := d.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, source := range [][]entities.User{d.seed, registered} {
		for _, u := range source {
			if u.SameEmail(email) && u.Password == password {
				return &u, nil
			}
		}
	}
	return nil, nil
}
