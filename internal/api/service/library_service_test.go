package service

import (
	"context"
	"sync"
	"testing"

	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/auth"
	"ctchen222/game-store/internal/db/dbtest"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func identity(email string) auth.Identity {
	return auth.Identity{Email: email, Role: models.RoleUser}
}

func newUserServiceOn(t *testing.T, DB *sqlx.DB) (UserService, *sqlx.DB, *fakeTokens) {
	t.Helper()
	tokens := &fakeTokens{}
	svc, err := NewUserService(DB, auth.NewBcryptHasher(bcrypt.MinCost), tokens)
	require.NoError(t, err)
	return svc, DB, tokens
}

func TestLibraryService(t *testing.T) {
	ctx := context.Background()
	DB := dbtest.New(t)
	users, _, _ := newUserServiceOn(t, DB)
	games := NewGameService(DB, nil)
	library, err := NewLibraryService(DB)
	require.NoError(t, err)

	_, err = users.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	alice := identity("alice@example.com")

	minecraft, err := games.CreateGame(ctx, admin, CreateGameInput{Title: "Minecraft", Price: 10000})
	require.NoError(t, err)
	celeste, err := games.CreateGame(ctx, admin, CreateGameInput{Title: "Celeste", Price: 1999})
	require.NoError(t, err)

	t.Run("acquire", func(t *testing.T) {
		owned, err := library.AcquireGame(ctx, alice, minecraft.ID)
		require.NoError(t, err)
		assert.Equal(t, "Minecraft", owned.Title)
		assert.Equal(t, models.Price(10000), owned.Price)

		_, err = library.AcquireGame(ctx, alice, celeste.ID)
		require.NoError(t, err)
	})

	t.Run("acquire twice", func(t *testing.T) {
		_, err := library.AcquireGame(ctx, alice, minecraft.ID)
		assert.ErrorIs(t, err, apperror.ErrAlreadyOwned)
	})

	t.Run("unknown game or user", func(t *testing.T) {
		_, err := library.AcquireGame(ctx, alice, "missing")
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		_, err = library.AcquireGame(ctx, identity("ghost@example.com"), minecraft.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("list owned", func(t *testing.T) {
		owned, err := library.ListOwned(ctx, alice)
		require.NoError(t, err)
		require.Len(t, owned, 2)
		assert.Equal(t, "Celeste", owned[0].Title)
		assert.Equal(t, "Minecraft", owned[1].Title)
	})

	t.Run("release", func(t *testing.T) {
		require.NoError(t, library.ReleaseGame(ctx, alice, celeste.ID))
		assert.ErrorIs(t, library.ReleaseGame(ctx, alice, celeste.ID), apperror.ErrNotFound)

		owned, err := library.ListOwned(ctx, alice)
		require.NoError(t, err)
		require.Len(t, owned, 1)
		assert.Equal(t, minecraft.ID, owned[0].ID)

		got, err := games.GetGame(ctx, celeste.ID)
		require.NoError(t, err)
		assert.Equal(t, "Celeste", got.Title)
	})

	t.Run("concurrent acquire adds once", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = library.AcquireGame(ctx, alice, celeste.ID)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, apperror.ErrAlreadyOwned)
		}
		assert.Equal(t, 1, succeeded)
	})
}
