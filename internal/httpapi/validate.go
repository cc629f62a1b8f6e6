package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// contentRequired is implemented by requests that need a text or HTML body.
type contentRequired interface {
	contentPath() string
	hasContent() bool
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validate runs struct validation and the text-or-html rule.
func (a *API) validate(v any) []FieldError {
	var out []FieldError

	if err := a.validator.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []FieldError{{Field: "", Message: err.Error()}}
		}
		for _, fe := range verrs {
			out = append(out, FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: fieldMessage(fe),
			})
		}
	}

	if c, ok := v.(contentRequired); ok && !c.hasContent() {
		out = append(out, FieldError{
			Field:   c.contentPath(),
			Message: "either text or html must be provided",
		})
	}
	return out
}

// fieldPath drops the root struct name: "sendEmailRequest.to[0]" → "to[0]".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	name := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", name)
	case "email":
		return fmt.Sprintf("%q must be a valid email", name)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q must be at least %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%q must contain at least %s items", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q must be at most %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%q must contain at most %s items", name, fe.Param())
	default:
		return fmt.Sprintf("%q failed on %s", name, fe.Tag())
	}
}
