package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks the login form.
func (c Credentials) Validate() error {
	return check(c)
}

// Validate checks the sign-up form. confirm is the repeated password.
func (r Registration) Validate(confirm string) error {
	return check(registrationForm{Registration: r, Confirm: confirm})
}

type registrationForm struct {
	Registration
	Confirm string `validate:"eqfield=Password"`
}

// Validate checks the create-user form.
func (r CreateAccountRequest) Validate() error {
	return check(r)
}

// Validate checks the edit-user form. Empty fields are left unchanged.
func (r UpdateAccountRequest) Validate() error {
	return check(r)
}

// check runs the struct tags and reports the first failure as a validation error.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return NewValidationError(err.Error())
	}
	return NewValidationError(fieldMessage(fields[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "email":
		return "Must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return fe.Param() + "s must match"
	case "oneof":
		return fmt.Sprintf("Unknown %s %v", strings.ToLower(fe.Field()), fe.Value())
	default:
		return fe.Field() + " is invalid"
	}
}
