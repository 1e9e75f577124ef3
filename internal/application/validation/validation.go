// Package validation checks application request structs before they reach the domain.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// engine returns the shared validator, reporting fields by their JSON names
func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates req against its `validate` tags. Any rule failure becomes
// an INVALID_INPUT domain error naming the first offending field.
func Struct(req any) error {
	err := engine().Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return shared.NewInvalidInputError(fe.Field(), message(fe))
	}
	return shared.NewDomainError(shared.CodeInvalidInput, err.Error())
}

// Decimal parses a decimal string input
func Decimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, shared.NewInvalidInputError(field, "must be a decimal number")
	}
	return d, nil
}

// OptionalDecimal parses a present decimal string; absent stays absent
func OptionalDecimal(field string, value shared.Optional[string]) (shared.Optional[decimal.Decimal], error) {
	s, ok := value.Get()
	if !ok {
		return shared.None[decimal.Decimal](), nil
	}
	d, err := Decimal(field, s)
	if err != nil {
		return shared.None[decimal.Decimal](), err
	}
	return shared.Some(d), nil
}

// NonEmpty maps a present empty string to absent
func NonEmpty(value shared.Optional[string]) shared.Optional[string] {
	if s, ok := value.Get(); ok && strings.TrimSpace(s) == "" {
		return shared.None[string]()
	}
	return value
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "invalid email format"
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	case "min":
		if e.Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "numeric":
		return "must be numeric"
	default:
		return "invalid value"
	}
}

// Var validates a single value against a tag list, e.g. "email"
func Var(field string, value any, tag string) error {
	if err := engine().Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return shared.NewInvalidInputError(field, message(fieldErrs[0]))
		}
		return shared.NewInvalidInputError(field, "invalid value")
	}
	return nil
}
