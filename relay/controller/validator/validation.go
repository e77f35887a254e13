package validator

import (
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"

	"github.com/Laisky/palm-client/relay/model"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so errors match what callers put on the wire
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateGenerationConfig checks every sampling parameter against its bound.
// Violations wrap model.ErrOutOfRange and name the first offending field.
func ValidateGenerationConfig(cfg model.GenerationConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(err, "validate generation config")
	}

	fe := verrs[0]
	return errors.Wrapf(model.ErrOutOfRange, "%s=%v violates %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
}

// ValidateText checks that value holds between model.MinTextLength and
// model.MaxTextLength characters.
func ValidateText(field, value string) error {
	n := utf8.RuneCountInString(value)
	if n < model.MinTextLength || n > model.MaxTextLength {
		return errors.Wrapf(model.ErrInvalidInput, "%s length %d outside [%d, %d]",
			field, n, model.MinTextLength, model.MaxTextLength)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed.
func ValidateChoice(field, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return errors.Wrapf(model.ErrInvalidSelection, "%s %q not in %v", field, value, allowed)
	}
	return nil
}

// ValidateMin checks that an integer parameter is at least min.
func ValidateMin(field string, value, min int) error {
	if value < min {
		return errors.Wrapf(model.ErrOutOfRange, "%s=%d must be >= %d", field, value, min)
	}
	return nil
}
