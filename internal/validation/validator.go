package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "spadesk/internal/errors"
)

var phoneRegex = regexp.MustCompile(`^[0-9+()\-. ]{7,20}$`)

// Validator checks request structs and reports failures as a single
// VALIDATION_ERROR carrying one message per JSON field.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("isodate", validateISODate)
	_ = v.RegisterValidation("hhmm", validateHHMM)
	_ = v.RegisterValidation("notblank", validateNotBlank)

	return &Validator{validate: v}
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates s. A nil return means s passed every rule.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return v.translateValidationErrors(validationErrs)
	}
	return apperrors.Validation(err.Error(), nil)
}

func (v *Validator) translateValidationErrors(errs validator.ValidationErrors) *apperrors.AppError {
	fields := make(map[string]string, len(errs))
	names := make([]string, 0, len(errs))

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("%s is required", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "phone":
			message = fmt.Sprintf("%s must be 7 to 20 digits, spaces or +()-. characters", err.Field())
		case "isodate":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "hhmm":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		if _, seen := fields[err.Field()]; !seen {
			names = append(names, err.Field())
		}
		fields[err.Field()] = message
	}

	return apperrors.Validation("invalid request: "+strings.Join(names, ", "), fields)
}
