package repositories

import (
	"context"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
)

// UserRegistry defines the durable collection of registered accounts.
// Records include the plaintext password.
type UserRegistry interface {
	// List returns every registered account in registration order
	List(ctx context.Context) ([]entities.User, error)

	// FindByEmail returns the account with the given email (case-insensitive), or nil
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// Add appends an account
	Add(ctx context.Context, user entities.User) error

	// Update replaces the account with the same email
	Update(ctx context.Context, user entities.User) error

	// Remove deletes the account with the given email; a missing account is not an error
	Remove(ctx context.Context, email string) error
}
