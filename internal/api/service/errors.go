package service

import (
	"ctchen222/game-store/internal/api/models"
	"ctchen222/game-store/internal/apperror"
	"ctchen222/game-store/internal/auth"
	"ctchen222/game-store/internal/validator"
	"errors"
	"fmt"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

var (
	errUserNotFound = apperror.New(apperror.NotFound, "user not found")
	errGameNotFound = apperror.New(apperror.NotFound, "game not found")
)

func requireAdmin(actor auth.Identity) error {
	if !auth.IsAuthorized(actor.Role, models.RoleAdmin) {
		return apperror.ErrForbidden
	}
	return nil
}

// validateInput runs struct validation and folds field errors into a single
// InvalidInput error naming each failing field.
func validateInput(in any) error {
	err := validator.GetValidator().Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return apperror.New(apperror.InvalidInput, strings.Join(msgs, "; "))
}
