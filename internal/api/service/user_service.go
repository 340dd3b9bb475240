package service

import (
	"context"
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/api/repository"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/auth"
	"ctchen222/game-store/internal/db"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"
)

var meter = otel.Meter("service")

// TokenGenerator issues access tokens for authenticated users.
type TokenGenerator interface {
	GenerateToken(email string, role models.Role) (string, error)
}

// RegisterInput is a new account.
type RegisterInput struct {
	Name     string      `validate:"required,max=100"`
	Email    string      `validate:"required,email,max=254"`
	Password string      `validate:"required"`
	Role     models.Role `validate:"required,role"`
}

// AdminUpdateInput replaces an account's editable fields.
type AdminUpdateInput struct {
	Name  string      `validate:"required,max=100"`
	Email string      `validate:"required,email,max=254"`
	Role  models.Role `validate:"required,role"`
}

type profileInput struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,email,max=254"`
}

// UserService defines the interface for identity operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.UserView, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, id auth.Identity) (*models.UserView, error)
	UpdateProfile(ctx context.Context, id auth.Identity, name, email string) (*models.ProfileUpdate, error)
	ChangePassword(ctx context.Context, id auth.Identity, currentPassword, newPassword string) error
	AdminResetPassword(ctx context.Context, actor auth.Identity, targetID, newPassword string) error
	AdminUpdate(ctx context.Context, actor auth.Identity, targetID string, in AdminUpdateInput) (*models.UserView, error)
	AdminDelete(ctx context.Context, actor auth.Identity, targetID string) error
	ListAll(ctx context.Context, actor auth.Identity) ([]models.UserView, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (*models.UserView, bool, error)
}

type userService struct {
	db     *sqlx.DB
	hasher auth.Hasher
	tokens TokenGenerator

	// dummyHash is verified against when an email is unknown so that
	// unknown-email and wrong-password logins cost the same.
	dummyHash string

	logins     metric.Int64Counter
	registered metric.Int64Counter
}

// NewUserService creates a new UserService.
func NewUserService(DB *sqlx.DB, hasher auth.Hasher, tokens TokenGenerator) (UserService, error) {
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	logins, err := meter.Int64Counter("gamestore.auth.logins",
		metric.WithDescription("Login attempts by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create login counter: %w", err)
	}
	registered, err := meter.Int64Counter("gamestore.users.registered",
		metric.WithDescription("Accounts created"))
	if err != nil {
		return nil, fmt.Errorf("failed to create registration counter: %w", err)
	}

	return &userService{
		db:         DB,
		hasher:     hasher,
		tokens:     tokens,
		dummyHash:  dummyHash,
		logins:     logins,
		registered: registered,
	}, nil
}

func (s *userService) users() repository.UserRepository {
	return repository.NewUserRepository(s.db)
}

// Register handles user registration.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.UserView, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	// Check if user already exists. The unique constraint on email is what
	// actually guarantees uniqueness under concurrent registrations.
	taken, err := s.users().EmailTaken(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ErrDuplicateEmail
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.registered.Add(ctx, 1, metric.WithAttributes(attribute.String("role", string(user.Role))))
	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	view := user.View()
	return &view, nil
}

// Authenticate verifies credentials and returns a signed token. Unknown
// emails and wrong passwords produce the same error.
func (s *userService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users().GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
		s.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
		return "", apperror.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
		return "", apperror.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Email, user.Role)
	if err != nil {
		return "", err
	}
	s.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "accepted")))
	return token, nil
}

// Profile returns the caller's own account.
func (s *userService) Profile(ctx context.Context, id auth.Identity) (*models.UserView, error) {
	user, err := s.userByIdentity(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// UpdateProfile changes the caller's name and email.
func (s *userService) UpdateProfile(ctx context.Context, id auth.Identity, name, email string) (*models.ProfileUpdate, error) {
	in := profileInput{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.userByIdentity(ctx, id)
	if err != nil {
		return nil, err
	}

	emailChanged := in.Email != user.Email
	if emailChanged {
		taken, err := s.users().EmailTaken(ctx, in.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.ErrDuplicateEmail
		}
	}

	user.Name = in.Name
	user.Email = in.Email
	if _, err := s.users().Update(ctx, user); err != nil {
		return nil, err
	}

	out := &models.ProfileUpdate{User: user.View()}
	if emailChanged {
		token, err := s.tokens.GenerateToken(user.Email, user.Role)
		if err != nil {
			return nil, err
		}
		out.Token = token
	}
	return out, nil
}

// ChangePassword replaces the caller's password after verifying the current one.
func (s *userService) ChangePassword(ctx context.Context, id auth.Identity, currentPassword, newPassword string) error {
	user, err := s.userByIdentity(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return apperror.New(apperror.InvalidCredentials, "current password is incorrect")
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.users().UpdatePassword(ctx, user.ID, hash)
	return err
}

// AdminResetPassword sets a new password for any account.
func (s *userService) AdminResetPassword(ctx context.Context, actor auth.Identity, targetID, newPassword string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}

	ok, err := s.users().UpdatePassword(ctx, targetID, hash)
	if err != nil {
		return err
	}
	if !ok {
		return errUserNotFound
	}

	slog.InfoContext(ctx, "password reset by admin", "user_id", targetID, "admin", actor.Email)
	return nil
}

// AdminUpdate replaces name, email and role of any account.
func (s *userService) AdminUpdate(ctx context.Context, actor auth.Identity, targetID string, in AdminUpdateInput) (*models.UserView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	users := s.users()
	user, err := users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound
	}

	if in.Email != user.Email {
		taken, err := users.EmailTaken(ctx, in.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.ErrDuplicateEmail
		}
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Role = in.Role
	ok, err := users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errUserNotFound
	}

	slog.InfoContext(ctx, "user updated by admin", "user_id", user.ID, "role", user.Role, "admin", actor.Email)
	view := user.View()
	return &view, nil
}

// AdminDelete removes an account together with its library entries.
func (s *userService) AdminDelete(ctx context.Context, actor auth.Identity, targetID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	err := db.WithTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := repository.NewLibraryRepository(tx).RemoveAllForUser(ctx, targetID); err != nil {
			return err
		}
		ok, err := repository.NewUserRepository(tx).Delete(ctx, targetID)
		if err != nil {
			return err
		}
		if !ok {
			return errUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "user deleted by admin", "user_id", targetID, "admin", actor.Email)
	return nil
}

// ListAll returns every account without password hashes.
func (s *userService) ListAll(ctx context.Context, actor auth.Identity) ([]models.UserView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.users().List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	return views, nil
}

// EnsureAdmin creates an Admin account unless the email is already
// registered. It reports whether an account was created.
func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.UserView, bool, error) {
	existing, err := s.users().GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		view := existing.View()
		return &view, false, nil
	}

	view, err := s.Register(ctx, RegisterInput{Name: name, Email: email, Password: password, Role: models.RoleAdmin})
	if err != nil {
		if errors.Is(err, apperror.ErrDuplicateEmail) {
			// Lost a race with another bootstrap; the account exists now.
			return s.EnsureAdmin(ctx, name, email, password)
		}
		return nil, false, err
	}
	return view, true, nil
}

func (s *userService) userByIdentity(ctx context.Context, id auth.Identity) (*models.User, error) {
	user, err := s.users().GetByEmail(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errUserNotFound
	}
	return user, nil
}

// hashPassword applies the password policy and hashes the result.
func (s *userService) hashPassword(plaintext string) (string, error) {
	if !auth.IsValidPassword(plaintext) {
		return "", apperror.ErrWeakPassword
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperror.New(apperror.InvalidInput, "password must not exceed 72 bytes")
		}
		return "", err
	}
	return hash, nil
}
