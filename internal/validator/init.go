package validator

import (
	"ctchen222/game-store/internal/api/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustom(validate); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

// RegisterCustom adds the store's custom tags to v.
func RegisterCustom(v *validator.Validate) error {
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
}

// BindGin registers the custom tags on gin's binding validator so request
// structs can use them in `binding` tags.
func BindGin() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return RegisterCustom(v)
	}
	return nil
}
