package repository

import (
	"context"
	"testing"

	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/db/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id, email string) *models.User {
	return &models.User{ID: id, Name: "Alice", Email: email, PasswordHash: "hash", Role: models.RoleUser}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))

	byID, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.Equal(t, models.RoleUser, byID.Role)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "u1", byEmail.ID)

	missing, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing, "email lookup is case-sensitive")
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))
	err := repo.Create(ctx, newUser("u2", "alice@example.com"))
	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUserRepository_EmailTaken(t *testing.T) {
	repo := NewUserRepository(dbtest.New(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))

	taken, err := repo.EmailTaken(ctx, "alice@example.com", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(ctx, "alice@example.com", "u1")
	require.NoError(t, err)
	assert.False(t, taken, "own email does not count")
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	repo := NewUserRepository(dbtest.New(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("u1", "alice@example.com")))
	require.NoError(t, repo.Create(ctx, newUser("u2", "bob@example.com")))

	ok, err := repo.Update(ctx, &models.User{ID: "u1", Name: "Alicia", Email: "alicia@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Update(ctx, &models.User{ID: "u1", Name: "Alicia", Email: "bob@example.com", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)

	ok, err = repo.Update(ctx, &models.User{ID: "missing", Name: "x", Email: "x@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdatePassword(ctx, "u1", "new-hash")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.Equal(t, "new-hash", got.PasswordHash)

	ok, err = repo.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}
