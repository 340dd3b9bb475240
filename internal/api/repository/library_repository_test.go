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

func TestLibraryRepository(t *testing.T) {
	DB := dbtest.New(t)
	ctx := context.Background()

	users := NewUserRepository(DB)
	games := NewGameRepository(DB)
	library := NewLibraryRepository(DB)

	require.NoError(t, users.Create(ctx, newUser("u1", "alice@example.com")))
	require.NoError(t, users.Create(ctx, newUser("u2", "bob@example.com")))
	require.NoError(t, games.Create(ctx, &models.Game{ID: "g1", Title: "Minecraft", Price: 10000}))
	require.NoError(t, games.Create(ctx, &models.Game{ID: "g2", Title: "Celeste", Price: 1999}))

	require.NoError(t, library.Add(ctx, "u1", "g1"))
	require.NoError(t, library.Add(ctx, "u1", "g2"))
	require.NoError(t, library.Add(ctx, "u2", "g1"))

	t.Run("duplicate pair", func(t *testing.T) {
		assert.ErrorIs(t, library.Add(ctx, "u1", "g1"), apperror.ErrAlreadyOwned)
	})

	t.Run("list owned", func(t *testing.T) {
		owned, err := library.ListOwned(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, owned, 2)
		assert.Equal(t, "Celeste", owned[0].Title)
		assert.Equal(t, models.Price(1999), owned[0].Price)
		assert.Equal(t, "Minecraft", owned[1].Title)
	})

	t.Run("owns", func(t *testing.T) {
		ok, err := library.Owns(ctx, "u2", "g1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = library.Owns(ctx, "u2", "g2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove all for game", func(t *testing.T) {
		require.NoError(t, library.RemoveAllForGame(ctx, "g1"))

		owned, err := library.ListOwned(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, owned)
	})

	t.Run("remove pair", func(t *testing.T) {
		ok, err := library.Remove(ctx, "u1", "g2")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = library.Remove(ctx, "u1", "g2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove all for user", func(t *testing.T) {
		require.NoError(t, library.Add(ctx, "u2", "g2"))
		require.NoError(t, library.RemoveAllForUser(ctx, "u2"))

		owned, err := library.ListOwned(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, owned)
	})
}
