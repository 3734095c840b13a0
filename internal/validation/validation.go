// Package validation checks request payloads against struct-tag schemas and
// reports the first violated rule with a user-facing message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error describes a single schema violation.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

var validate = newValidator()

// messages maps "<json field>.<rule>" to the text shown to users.
var messages = map[string]string{
	"email.required":    "Invalid email address",
	"email.email":       "Invalid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 8 characters",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Check validates v and returns nil or the first violation as *Error.
func Check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	first := fieldErrs[0]
	return &Error{Field: first.Field(), Message: Message(first.Field(), first.Tag())}
}

// Message returns the registered text for a field/rule pair.
func Message(field, rule string) string {
	if msg, ok := messages[field+"."+rule]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}
