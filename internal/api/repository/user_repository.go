package repository

import (
	"context"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/db"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository")

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type sqlUserRepository struct {
	q sqlx.ExtContext
}

// NewUserRepository creates a UserRepository bound to q, which may be the
// pool or a transaction.
func NewUserRepository(q sqlx.ExtContext) UserRepository {
	return &sqlUserRepository{q: q}
}

const userColumns = `id, name, email, password_hash, role`

// Create inserts a new user. A unique violation on email is reported as
// apperror.ErrDuplicateEmail.
func (r *sqlUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, span := tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	query := r.q.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`)
	_, err := r.q.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Role)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperror.ErrDuplicateEmail
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id. A missing user yields (nil, nil).
func (r *sqlUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by exact email. A missing user yields (nil, nil).
func (r *sqlUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *sqlUserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := sqlx.GetContext(ctx, r.q, &user, r.q.Rebind(query), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// EmailTaken reports whether a user other than exceptID uses email.
func (r *sqlUserRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.EmailTaken")
	defer span.End()

	var n int
	query := r.q.Rebind(`SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?`)
	if err := sqlx.GetContext(ctx, r.q, &n, query, email, exceptID); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// List returns every user ordered by name.
func (r *sqlUserRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	users := []models.User{}
	if err := sqlx.SelectContext(ctx, r.q, &users, `SELECT `+userColumns+` FROM users ORDER BY name, email`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update replaces name, email and role. It reports false when no user has
// the given id.
func (r *sqlUserRepository) Update(ctx context.Context, user *models.User) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	query := r.q.Rebind(`UPDATE users SET name = ?, email = ?, role = ? WHERE id = ?`)
	res, err := r.q.ExecContext(ctx, query, user.Name, user.Email, user.Role, user.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return false, apperror.ErrDuplicateEmail
		}
		return false, fmt.Errorf("failed to update user: %w", err)
	}
	return affected(res)
}

// UpdatePassword replaces the stored hash.
func (r *sqlUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.UpdatePassword")
	defer span.End()

	query := r.q.Rebind(`UPDATE users SET password_hash = ? WHERE id = ?`)
	res, err := r.q.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return false, fmt.Errorf("failed to update password: %w", err)
	}
	return affected(res)
}

// Delete removes the user row. Callers remove library entries first in the
// same transaction.
func (r *sqlUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.Delete")
	defer span.End()

	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
