package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerMu sync.Mutex

// bindingEngine returns the validator behind gin's default binder
var bindingEngine = func() (*validator.Validate, bool) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	return v, ok
}

// RegisterEnum registers tag as a string-set validator on gin's binding engine.
// Any field whose string value satisfies valid passes; empty values are left to
// `required` / `omitempty`.
func RegisterEnum(tag string, valid func(string) bool) error {
	registerMu.Lock()
	defer registerMu.Unlock()

	v, ok := bindingEngine()
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return RegisterEnumOn(v, tag, valid)
}

// RegisterEnumOn is RegisterEnum against an explicit validator instance
func RegisterEnumOn(v *validator.Validate, tag string, valid func(string) bool) error {
	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		return valid(s)
	})
}

// FormatValidationError renders binding errors as a single readable message
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, e := range verrs {
			messages = append(messages, formatFieldError(e))
		}
		return strings.Join(messages, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("field '%s' should be %s", typeErr.Field, typeErr.Type.String())
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "invalid JSON format"
	}

	return err.Error()
}

func formatFieldError(e validator.FieldError) string {
	field := lowerFirst(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters", field, e.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters", field, e.Param())
	case "email":
		return fmt.Sprintf("field '%s' must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "team_role":
		return fmt.Sprintf("field '%s' must be a valid team role", field)
	case "task_status":
		return fmt.Sprintf("field '%s' must be pending, in_progress or completed", field)
	default:
		return fmt.Sprintf("field '%s' validation failed on '%s' tag", field, e.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
