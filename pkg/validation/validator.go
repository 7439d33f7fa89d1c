package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their json name so messages match the input files.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation("finite", validateFinite); err != nil {
		panic(fmt.Sprintf("register finite validation: %v", err))
	}
}

func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

// FieldError describes the first failed struct-tag rule of a record.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s: field is required", e.Field)
	case "min", "gte":
		return fmt.Sprintf("%s: must be at least %s", e.Field, e.Param)
	case "max", "lte":
		return fmt.Sprintf("%s: must not exceed %s", e.Field, e.Param)
	case "finite":
		return fmt.Sprintf("%s: must be a finite number", e.Field)
	default:
		return fmt.Sprintf("%s: validation failed (%s)", e.Field, e.Tag)
	}
}

// Struct validates v against its `validate` tags and returns a *FieldError
// for the first violation.
func Struct(v any) error {
	if v == nil {
		return errors.New("record cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// formatValidationError converts validator errors to a *FieldError
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	first := validationErrs[0]
	return &FieldError{
		Field: first.Field(),
		Tag:   first.Tag(),
		Param: first.Param(),
	}
}

// IsMissing reports whether err is a FieldError for a missing required field.
func IsMissing(err error, field string) bool {
	var fe *FieldError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Tag == "required" && (field == "" || fe.Field == field)
}
