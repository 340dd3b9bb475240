package service

import (
	"context"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/repository"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/auth"
	"ctchen222/game-store/internal/db"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/metric"
)

// LibraryService defines the interface for ownership operations. The caller
// always acts on their own library.
type LibraryService interface {
	AcquireGame(ctx context.Context, id auth.Identity, gameID string) (*models.OwnedGame, error)
	ReleaseGame(ctx context.Context, id auth.Identity, gameID string) error
	ListOwned(ctx context.Context, id auth.Identity) ([]models.OwnedGame, error)
}

type libraryService struct {
	db       *sqlx.DB
	acquired metric.Int64Counter
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(DB *sqlx.DB) (LibraryService, error) {
	acquired, err := meter.Int64Counter("gamestore.library.acquisitions",
		metric.WithDescription("Games added to libraries"))
	if err != nil {
		return nil, fmt.Errorf("failed to create acquisition counter: %w", err)
	}
	return &libraryService{db: DB, acquired: acquired}, nil
}

// AcquireGame adds a catalog game to the caller's library.
func (s *libraryService) AcquireGame(ctx context.Context, id auth.Identity, gameID string) (*models.OwnedGame, error) {
	var owned *models.OwnedGame
	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		user, err := repository.NewUserRepository(tx).GetByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		if user == nil {
			return errUserNotFound
		}

		game, err := repository.NewGameRepository(tx).GetByID(ctx, gameID)
		if err != nil {
			return err
		}
		if game == nil {
			return errGameNotFound
		}

		if err := repository.NewLibraryRepository(tx).Add(ctx, user.ID, game.ID); err != nil {
			return err
		}

		owned = &models.OwnedGame{
			ID:          game.ID,
			Title:       game.Title,
			Description: game.Description,
			Price:       game.Price,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.acquired.Add(ctx, 1)
	slog.InfoContext(ctx, "game acquired", "game_id", gameID, "user", id.Email)
	return owned, nil
}

// ReleaseGame removes a game from the caller's library.
func (s *libraryService) ReleaseGame(ctx context.Context, id auth.Identity, gameID string) error {
	user, err := s.userByIdentity(ctx, id)
	if err != nil {
		return err
	}

	ok, err := repository.NewLibraryRepository(s.db).Remove(ctx, user.ID, gameID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.New(apperror.NotFound, "game is not in library")
	}
	return nil
}

// ListOwned returns the caller's library.
func (s *libraryService) ListOwned(ctx context.Context, id auth.Identity) ([]models.OwnedGame, error) {
	user, err := s.userByIdentity(ctx, id)
	if err != nil {
		return nil, err
	}
	return repository.NewLibraryRepository(s.db).ListOwned(ctx, user.ID)
}

func (s *libraryService) userByIdentity(ctx context.Context, id auth.Identity) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db).GetByEmail(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound
	}
	return user, nil
}
