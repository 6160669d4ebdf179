package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error joins every field error into one line.
func (r *ValidationResult) Error() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return strings.Join(parts, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors follow the
// json tag so they match job variable names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs the `validate` tags of s.
func ValidateStruct(s interface{}) *ValidationResult {
	err := Validator().Struct(s)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(root)", Message: err.Error(), Code: "INVALID_INPUT"}},
		}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   trimNamespace(fe.Namespace()),
			Message: describe(fe),
			Code:    codeFor(fe.Tag()),
		})
	}
	return &ValidationResult{Valid: false, Errors: out}
}

// trimNamespace drops the top-level struct name.
func trimNamespace(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field missing"
	case "required_without":
		return fmt.Sprintf("required when %s is absent", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func codeFor(tag string) string {
	switch tag {
	case "required", "required_without":
		return "REQUIRED_FIELD_MISSING"
	case "min", "gte", "max", "lte":
		return "RANGE_VIOLATION"
	case "oneof":
		return "INVALID_ENUM_VALUE"
	default:
		return "INVALID_VALUE"
	}
}
