package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// cell accepts an absent position or exactly [row, col]; range checks
	// belong to the engine.
	if err := validate.RegisterValidation("cell", validateCell); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

func validateCell(fl validator.FieldLevel) bool {
	n := fl.Field().Len()
	return n == 0 || n == 2
}
