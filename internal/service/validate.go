package service

import "github.com/go-playground/validator/v10"

// validate shares the `binding` tag with Gin so request structs carry one set of rules.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// Validate checks a request struct and returns a *ValidationError for the first failure.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return NewValidationError(err)
	}
	return nil
}
