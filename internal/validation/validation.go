// Package validation runs struct-tag validation and reports the first
// failure as an *apperr.ValidationError named after the JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
)

var contactRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// contact: a phone number, optionally with a leading +
	_ = v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return contactRegex.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates v and returns the first failing field, or nil.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("input", "is invalid")
	}
	fe := verrs[0]
	return apperr.Validation(fieldName(fe), reason(fe))
}

// fieldName drops the index from slice elements: "benefits[2]" -> "benefits".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i > 0 {
		return name[:i]
	}
	return name
}

func reason(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	if fe.Kind() == reflect.Slice {
		unit = " items"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "contact":
		return "must be a valid contact number"
	case "number", "numeric":
		return "must contain only digits"
	case "url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), "'", "")
	case "len":
		return fmt.Sprintf("must be exactly %s%s", fe.Param(), unit)
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	default:
		return "is invalid"
	}
}
