package service

import (
	"context"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/repository"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/auth"
	"ctchen222/game-store/internal/db"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateGameInput is a new catalog entry.
type CreateGameInput struct {
	Title       string       `validate:"required,max=200"`
	Description string       `validate:"max=2000"`
	Price       models.Price `validate:"min=0"`
}

// GameService defines the interface for catalog operations.
type GameService interface {
	CreateGame(ctx context.Context, actor auth.Identity, in CreateGameInput) (*models.Game, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListAll(ctx context.Context) ([]models.Game, error)
	DeleteGame(ctx context.Context, actor auth.Identity, id string) error
}

type gameService struct {
	db    *sqlx.DB
	cache repository.GameCache
}

// NewGameService creates a new GameService. A nil cache disables caching.
func NewGameService(DB *sqlx.DB, cache repository.GameCache) GameService {
	if cache == nil {
		cache = repository.NewNoopGameCache()
	}
	return &gameService{db: DB, cache: cache}
}

// CreateGame adds a game to the catalog. Titles are unique ignoring case.
func (s *gameService) CreateGame(ctx context.Context, actor auth.Identity, in CreateGameInput) (*models.Game, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	games := repository.NewGameRepository(s.db)
	taken, err := games.TitleTaken(ctx, in.Title)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ErrDuplicateTitle
	}

	game := &models.Game{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
	}
	if err := games.Create(ctx, game); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	slog.InfoContext(ctx, "game created", "game_id", game.ID, "title", game.Title)
	return game, nil
}

// GetGame returns a single catalog entry.
func (s *gameService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	game, err := repository.NewGameRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, errGameNotFound
	}
	return game, nil
}

// ListAll returns the whole catalog, served from the cache when possible.
// The cache generation is read before the database so that a listing
// racing with a mutation is stored under the generation it invalidated.
func (s *gameService) ListAll(ctx context.Context) ([]models.Game, error) {
	games, gen, ok, cacheErr := s.cache.GetCatalog(ctx)
	if cacheErr != nil {
		slog.WarnContext(ctx, "catalog cache read failed", "error", cacheErr)
	}
	if ok {
		return games, nil
	}

	games, err := repository.NewGameRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}

	// Without a known generation the listing could land on a live key.
	if cacheErr != nil {
		return games, nil
	}
	if err := s.cache.SetCatalog(ctx, gen, games); err != nil {
		slog.WarnContext(ctx, "catalog cache write failed", "error", err)
	}
	return games, nil
}

// DeleteGame removes a game and every library entry that references it.
func (s *gameService) DeleteGame(ctx context.Context, actor auth.Identity, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := repository.NewLibraryRepository(tx).RemoveAllForGame(ctx, id); err != nil {
			return err
		}
		ok, err := repository.NewGameRepository(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errGameNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	slog.InfoContext(ctx, "game deleted", "game_id", id)
	return nil
}

func (s *gameService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}
