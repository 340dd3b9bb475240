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

func TestGameRepository_CaseInsensitiveTitle(t *testing.T) {
	repo := NewGameRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Game{ID: "g1", Title: "Minecraft", Description: "Blocks", Price: 10000}))

	taken, err := repo.TitleTaken(ctx, "MINECRAFT")
	require.NoError(t, err)
	assert.True(t, taken)

	err = repo.Create(ctx, &models.Game{ID: "g2", Title: "minecraft", Price: 9000})
	assert.ErrorIs(t, err, apperror.ErrDuplicateTitle)
}

func TestGameRepository_GetListDelete(t *testing.T) {
	repo := NewGameRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Game{ID: "g1", Title: "Terraria", Price: 1999}))
	require.NoError(t, repo.Create(ctx, &models.Game{ID: "g2", Title: "celeste", Price: 0}))

	got, err := repo.GetByID(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.Price(1999), got.Price)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	games, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "celeste", games[0].Title)
	assert.Equal(t, "Terraria", games[1].Title)

	ok, err := repo.Delete(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, ok)
}
