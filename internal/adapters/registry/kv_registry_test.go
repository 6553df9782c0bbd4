package registry

import (
	"context"
	"testing"

	"github.com/jsimpson73/test-med-app/internal/adapters/storage"
	"github.com/jsimpson73/test-med-app/internal/domain/entities"
	apperrors "github.com/jsimpson73/test-med-app/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVUserRegistry_AddAndFind(t *testing.T) {
	ctx := context.Background()
	reg := NewKVUserRegistry(storage.NewMemoryStore())

	users, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	jane := entities.User{ID: "u-1", Email: "jane@x.com", Name: "Jane Doe", Password: "Abcdef12", Role: entities.RolePatient}
	require.NoError(t, reg.Add(ctx, jane))

	found, err := reg.FindByEmail(ctx, "  JANE@X.COM ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Abcdef12", found.Password)

	missing, err := reg.FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestKVUserRegistry_RejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	reg := NewKVUserRegistry(storage.NewMemoryStore())

	require.NoError(t, reg.Add(ctx, entities.User{Email: "jane@x.com"}))
	err := reg.Add(ctx, entities.User{Email: "Jane@X.com"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

	users, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestKVUserRegistry_Update(t *testing.T) {
	ctx := context.Background()
	reg := NewKVUserRegistry(storage.NewMemoryStore())

	require.NoError(t, reg.Add(ctx, entities.User{Email: "a@x.com", Name: "Ann"}))
	require.NoError(t, reg.Add(ctx, entities.User{Email: "b@x.com", Name: "Bob"}))
	require.NoError(t, reg.Update(ctx, entities.User{Email: "b@x.com", Name: "Bobby"}))

	users, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ann", users[0].Name)
	assert.Equal(t, "Bobby", users[1].Name)

	err = reg.Update(ctx, entities.User{Email: "c@x.com"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestKVUserRegistry_PersistsAsJSONArray(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, NewKVUserRegistry(store).Add(ctx, entities.User{ID: "u-1", Email: "jane@x.com", Password: "Abcdef12"}))

	raw, err := store.Get(ctx, RegisteredUsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"u-1","email":"jane@x.com","name":"","phone":"","role":"","password":"Abcdef12"}]`, string(raw))

	// a second registry over the same store sees the record
	users, err := NewKVUserRegistry(store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestKVUserRegistry_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, RegisteredUsersKey, []byte("not json")))

	_, err := NewKVUserRegistry(store).List(ctx)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}

func TestKVUserRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	reg := NewKVUserRegistry(storage.NewMemoryStore())

	require.NoError(t, reg.Add(ctx, entities.User{Email: "a@x.com", Name: "Ann"}))
	require.NoError(t, reg.Add(ctx, entities.User{Email: "b@x.com", Name: "Bob"}))

	t.Run("removes case-insensitively", func(t *testing.T) {
		require.NoError(t, reg.Remove(ctx, " A@X.COM"))
		users, err := reg.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Bob", users[0].Name)
	})

	t.Run("missing email is a no-op", func(t *testing.T) {
		require.NoError(t, reg.Remove(ctx, "nobody@x.com"))
		users, err := reg.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("email can be registered again", func(t *testing.T) {
		require.NoError(t, reg.Add(ctx, entities.User{Email: "a@x.com", Name: "Ann"}))
		users, err := reg.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}
