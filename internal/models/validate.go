// server/internal/models/validate.go
package models

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the bloodtype tag registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
			return BloodType(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate checks a document against its schema tags before it is written.
func Validate(doc any) error {
	return Validator().Struct(doc)
}
