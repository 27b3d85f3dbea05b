package util

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var (
	upperCasePattern = regexp.MustCompile(`[A-Z]`)
	phonePattern     = regexp.MustCompile(`^\+?[0-9][0-9 ()\-]{5,19}$`)
)

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// report json names so log lines match the request body
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	Validate.RegisterValidation("hasuppercase", validateHasUppercase)
	Validate.RegisterValidation("phone", validatePhone)
}

func validateHasUppercase(fl validator.FieldLevel) bool {
	return upperCasePattern.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// FieldError describes the first constraint a payload violated.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Msg   string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Msg
}

// ValidateStruct returns nil when s is valid, otherwise the first violation.
func ValidateStruct(s interface{}) *FieldError {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &FieldError{Tag: "invalid", Msg: err.Error()}
	}

	fe := verrs[0]
	element := &FieldError{Field: fe.Field(), Tag: fe.Tag()}

	switch fe.Tag() {
	case "required":
		element.Msg = fmt.Sprintf("field '%s' is required", element.Field)
	case "min":
		element.Msg = fmt.Sprintf("field '%s' must be at least %s characters/value", element.Field, fe.Param())
	case "max":
		element.Msg = fmt.Sprintf("field '%s' must be at most %s characters/value", element.Field, fe.Param())
	case "gte":
		element.Msg = fmt.Sprintf("field '%s' must be greater than or equal to %s", element.Field, fe.Param())
	case "email":
		element.Msg = fmt.Sprintf("field '%s' is not a valid email", element.Field)
	case "phone":
		element.Msg = fmt.Sprintf("field '%s' is not a valid phone number", element.Field)
	case "datetime":
		element.Msg = fmt.Sprintf("field '%s' must use the %s date format", element.Field, fe.Param())
	case "mongodb":
		element.Msg = fmt.Sprintf("field '%s' is not a valid identifier", element.Field)
	case "hasuppercase":
		element.Msg = "password must contain at least one uppercase letter"
	case "oneof":
		element.Msg = fmt.Sprintf("field '%s' must be one of: %s", element.Field, fe.Param())
	default:
		element.Msg = fmt.Sprintf("field '%s' failed the '%s' check", element.Field, element.Tag)
	}
	return element
}
