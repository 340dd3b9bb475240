package repository

import (
	"context"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/db"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// GameRepository defines the interface for catalog data operations.
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id string) (*models.Game, error)
	TitleTaken(ctx context.Context, title string) (bool, error)
	List(ctx context.Context) ([]models.Game, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type sqlGameRepository struct {
	q sqlx.ExtContext
}

// NewGameRepository creates a GameRepository bound to q.
func NewGameRepository(q sqlx.ExtContext) GameRepository {
	return &sqlGameRepository{q: q}
}

// TitleKey is the normalized form of a title used for uniqueness.
func TitleKey(title string) string {
	return strings.ToLower(title)
}

const gameColumns = `id, title, description, price_cents`

// Create inserts a game. A title colliding case-insensitively with an
// existing one is reported as apperror.ErrDuplicateTitle.
func (r *sqlGameRepository) Create(ctx context.Context, game *models.Game) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Create")
	defer span.End()

	query := r.q.Rebind(`INSERT INTO games (id, title, title_key, description, price_cents) VALUES (?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query, game.ID, game.Title, TitleKey(game.Title), game.Description, game.Price)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperror.ErrDuplicateTitle
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetByID retrieves a game. A missing game yields (nil, nil).
func (r *sqlGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.GetByID")
	defer span.End()

	var game models.Game
	err := sqlx.GetContext(ctx, r.q, &game, r.q.Rebind(`SELECT `+gameColumns+` FROM games WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

// TitleTaken reports whether any game's title matches case-insensitively.
func (r *sqlGameRepository) TitleTaken(ctx context.Context, title string) (bool, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.TitleTaken")
	defer span.End()

	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM games WHERE title_key = ?`), TitleKey(title)); err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return n > 0, nil
}

// List returns the whole catalog ordered by title.
func (r *sqlGameRepository) List(ctx context.Context) ([]models.Game, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.List")
	defer span.End()

	games := []models.Game{}
	if err := sqlx.SelectContext(ctx, r.q, &games, `SELECT `+gameColumns+` FROM games ORDER BY title_key`); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// Delete removes the game row. Callers remove library entries first in the
// same transaction.
func (r *sqlGameRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete")
	defer span.End()

	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM games WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete game: %w", err)
	}
	return affected(res)
}
