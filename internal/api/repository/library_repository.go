package repository

import (
	"context"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/db"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// LibraryRepository manages the user_games join set. Each side's collection
// is a query over this set; neither entity stores the other.
type LibraryRepository interface {
	Add(ctx context.Context, userID, gameID string) error
	Remove(ctx context.Context, userID, gameID string) (bool, error)
	Owns(ctx context.Context, userID, gameID string) (bool, error)
	ListOwned(ctx context.Context, userID string) ([]models.OwnedGame, error)
	RemoveAllForUser(ctx context.Context, userID string) error
	RemoveAllForGame(ctx context.Context, gameID string) error
}

type sqlLibraryRepository struct {
	q sqlx.ExtContext
}

// NewLibraryRepository creates a LibraryRepository bound to q.
func NewLibraryRepository(q sqlx.ExtContext) LibraryRepository {
	return &sqlLibraryRepository{q: q}
}

// Add inserts the (user, game) pair. An existing pair is reported as
// apperror.ErrAlreadyOwned.
func (r *sqlLibraryRepository) Add(ctx context.Context, userID, gameID string) error {
	ctx, span := tracer.Start(ctx, "LibraryRepository.Add")
	defer span.End()

	_, err := r.q.ExecContext(ctx, r.q.Rebind(`INSERT INTO user_games (user_id, game_id) VALUES (?, ?)`), userID, gameID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperror.ErrAlreadyOwned
		}
		span.RecordError(err)
		return fmt.Errorf("failed to add game to library: %w", err)
	}
	return nil
}

// Remove deletes the pair and reports whether it existed.
func (r *sqlLibraryRepository) Remove(ctx context.Context, userID, gameID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "LibraryRepository.Remove")
	defer span.End()

	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM user_games WHERE user_id = ? AND game_id = ?`), userID, gameID)
	if err != nil {
		return false, fmt.Errorf("failed to remove game from library: %w", err)
	}
	return affected(res)
}

// Owns reports whether the pair exists.
func (r *sqlLibraryRepository) Owns(ctx context.Context, userID, gameID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "LibraryRepository.Owns")
	defer span.End()

	var n int
	query := r.q.Rebind(`SELECT COUNT(*) FROM user_games WHERE user_id = ? AND game_id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &n, query, userID, gameID); err != nil {
		return false, fmt.Errorf("failed to check library: %w", err)
	}
	return n > 0, nil
}

// ListOwned returns the games in the user's library ordered by title.
func (r *sqlLibraryRepository) ListOwned(ctx context.Context, userID string) ([]models.OwnedGame, error) {
	ctx, span := tracer.Start(ctx, "LibraryRepository.ListOwned")
	defer span.End()

	games := []models.OwnedGame{}
	query := r.q.Rebind(`
		SELECT g.id, g.title, g.description, g.price_cents
		FROM user_games ug
		JOIN games g ON g.id = ug.game_id
		WHERE ug.user_id = ?
		ORDER BY g.title_key`)
	if err := sqlx.SelectContext(ctx, r.q, &games, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}
	return games, nil
}

// RemoveAllForUser severs every pair pointing at the user.
func (r *sqlLibraryRepository) RemoveAllForUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "LibraryRepository.RemoveAllForUser")
	defer span.End()

	if _, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM user_games WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("failed to clear user library: %w", err)
	}
	return nil
}

// RemoveAllForGame severs every pair pointing at the game.
func (r *sqlLibraryRepository) RemoveAllForGame(ctx context.Context, gameID string) error {
	ctx, span := tracer.Start(ctx, "LibraryRepository.RemoveAllForGame")
	defer span.End()

	if _, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM user_games WHERE game_id = ?`), gameID); err != nil {
		return fmt.Errorf("failed to clear game owners: %w", err)
	}
	return nil
}
