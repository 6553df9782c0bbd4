package registry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	"github.com/jsimpson73/test-med-app/internal/domain/providers"
	"github.com/jsimpson73/test-med-app/internal/domain/repositories"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
)

// RegisteredUsersKey holds the JSON array of registered accounts.
const RegisteredUsersKey = "stayhealthy_registered_users"

// KVUserRegistry implements UserRegistry as one JSON array under a single key.
type KVUserRegistry struct {
	store providers.KeyValueStore
	mu    sync.Mutex
}

var _ repositories.UserRegistry = (*KVUserRegistry)(nil)

// NewKVUserRegistry creates a registry backed by store
func NewKVUserRegistry(store providers.KeyValueStore) *KVUserRegistry {
	return &KVUserRegistry{store: store}
}

// List returns every registered account in registration order
func (r *KVUserRegistry) List(ctx context.Context) ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// FindByEmail returns the account with the given email, or nil when absent
func (r *KVUserRegistry) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].SameEmail(email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

// Add appends an account. The email must not already be registered.
func (r *KVUserRegistry) Add(ctx context.Context, user entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.SameEmail(user.Email) {
			return apperrors.NewDuplicateAccountError()
		}
	}
	return r.save(ctx, append(users, user))
}

// Update replaces the account with the same email
func (r *KVUserRegistry) Update(ctx context.Context, user entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].SameEmail(user.Email) {
			users[i] = user
			return r.save(ctx, users)
		}
	}
	return apperrors.NewNotFoundError("registered user " + user.Email + " not found")
}

// Remove deletes the account with the given email
func (r *KVUserRegistry) Remove(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].SameEmail(email) {
			return r.save(ctx, append(users[:i], users[i+1:]...))
		}
	}
	return nil
}

func (r *KVUserRegistry) load(ctx context.Context) ([]entities.User, error) {
	raw, err := r.store.Get(ctx, RegisteredUsersKey)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return []entities.User{}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read user registry", err)
	}

	var users []entities.User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, apperrors.NewInternalError("failed to decode user registry", err)
	}
	return users, nil
}

func (r *KVUserRegistry) save(ctx context.Context, users []entities.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return apperrors.NewInternalError("failed to encode user registry", err)
	}
	if err := r.store.Set(ctx, RegisteredUsersKey, raw); err != nil {
		return apperrors.NewInternalError("failed to write user registry", err)
	}
	return nil
}
