// ABOUTME: Client-side form validation using go-playground/validator tags
// ABOUTME: Failures become validation-kind errors and are never sent to the backend

package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterForm is the registration form including the confirmation field
type RegisterForm struct {
	Name            string `validate:"required,max=100"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	Role            string `validate:"required,oneof=USER SELLER"`
}

// Registration drops the confirmation field once the form is valid
func (f RegisterForm) Registration() models.Registration {
	return models.Registration{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     models.Role(f.Role),
	}
}

// Struct validates s and returns a validation-kind error describing every failing field
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation(err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, messageFor(fe))
	}
	return apperrors.Validation(strings.Join(msgs, "; "))
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "eqfield" && fe.Field() == "ConfirmPassword" {
		return "Passwords do not match"
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Email is a single-field check suitable for huh input validation
func Email(s string) error {
	if err := validate.Var(strings.TrimSpace(s), "required,email"); err != nil {
		return fmt.Errorf("must be a valid email address")
	}
	return nil
}

// Required rejects blank input
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// Price accepts a positive decimal amount
func Price(s string) error {
	_, err := ParsePrice(s)
	return err
}

// ParsePrice parses a positive decimal amount
func ParsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("must be a positive amount")
	}
	return d, nil
}

// NonNegativeInt accepts 0 and above
func NonNegativeInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be zero or a positive number")
	}
	return nil
}

// PositiveInt accepts 1 and above
func PositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}
